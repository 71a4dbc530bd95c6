package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	campaignservice "adbroker/contexts/deal-brokerage/campaign-service"
	channelregistry "adbroker/contexts/deal-brokerage/channel-registry"
	dealservice "adbroker/contexts/deal-brokerage/deal-service"
	userdirectory "adbroker/contexts/identity-access/user-directory"
	_ "adbroker/internal/platform/httpserver/docs"
	"adbroker/internal/platform/metrics"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	deals     dealservice.Module
	campaigns campaignservice.Module
	channels  channelregistry.Module
	users     userdirectory.Module
}

func New(
	deals dealservice.Module,
	campaigns campaignservice.Module,
	channels channelregistry.Module,
	users userdirectory.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		deals:     deals,
		campaigns: campaigns,
		channels:  channels,
		users:     users,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for httptest-based tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("/metrics", metrics.Handler())
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.route("POST /deals", s.handleCreateDeal)
	s.route("GET /deals/my", s.handleListMyDeals)
	s.route("GET /deals/{deal_id}", s.handleGetDeal)
	s.route("GET /deals/{deal_id}/creatives", s.handleListCreatives)
	s.route("POST /deals/{deal_id}/accept", s.handleAcceptDeal)
	s.route("POST /deals/{deal_id}/reject", s.handleRejectDeal)
	s.route("POST /deals/{deal_id}/mark-paid", s.handleMarkPaid)
	s.route("POST /deals/{deal_id}/draft", s.handleSubmitDraft)
	s.route("POST /deals/{deal_id}/review-draft", s.handleReviewDraft)
	s.route("POST /deals/{deal_id}/verify-post", s.handleVerifyPost)

	s.route("POST /campaigns", s.handleCreateCampaign)
	s.route("GET /campaigns", s.handleListCampaigns)
	s.route("GET /campaigns/my-applications", s.handleMyApplications)
	s.route("GET /campaigns/{campaign_id}", s.handleGetCampaign)
	s.route("POST /campaigns/{campaign_id}/apply", s.handleApplyToCampaign)
	s.route("GET /campaigns/{campaign_id}/applications", s.handleListApplications)
	s.route("POST /campaigns/{campaign_id}/applications/{application_id}/accept", s.handleAcceptApplication)
	s.route("POST /campaigns/{campaign_id}/applications/{application_id}/reject", s.handleRejectApplication)

	s.route("GET /channels", s.handleListChannels)
	s.route("GET /channels/{channel_id}", s.handleGetChannel)
	s.route("GET /channels/{channel_id}/formats", s.handleListAdFormats)

	s.route("GET /users/me", s.handleGetMe)
}

func (s *Server) route(pattern string, handler http.HandlerFunc) {
	s.mux.HandleFunc(pattern, metrics.Instrument(pattern, handler))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
