package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/competitions", handler.ListCompetitions)
	mux.HandleFunc("GET /v1/competitions/active", handler.GetActiveCompetition)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/dashboard", RequireAuth(verifier, http.HandlerFunc(handler.GetDashboard)))
	mux.Handle("GET /v1/players", RequireAuth(verifier, http.HandlerFunc(handler.ListPlayers)))
	mux.Handle("GET /v1/leaderboard", RequireAuth(verifier, http.HandlerFunc(handler.GetLeaderboard)))
	mux.Handle("GET /v1/rounds/{roundID}", RequireAuth(verifier, http.HandlerFunc(handler.GetMyRound)))
	mux.Handle("PUT /v1/rounds/{roundID}/predictions", RequireAuth(verifier, http.HandlerFunc(handler.SaveMyPredictions)))
	mux.Handle("GET /v1/rounds/{roundID}/compare/{userID}", RequireAuth(verifier, http.HandlerFunc(handler.CompareRound)))
	mux.Handle("GET /v1/history", RequireAuth(verifier, http.HandlerFunc(handler.ListRoundHistory)))
	mux.Handle("GET /v1/history/{roundID}", RequireAuth(verifier, http.HandlerFunc(handler.GetRoundHistory)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireAdmin(h))
	}

	mux.Handle("POST /v1/admin/competitions", admin(handler.CreateCompetition))
	mux.Handle("POST /v1/admin/competitions/{competitionID}/activate", admin(handler.ActivateCompetition))

	mux.Handle("POST /v1/admin/rounds", admin(handler.CreateRound))
	mux.Handle("GET /v1/admin/rounds", admin(handler.ListRounds))
	mux.Handle("GET /v1/admin/rounds/{roundID}", admin(handler.GetRoundDetail))
	mux.Handle("PUT /v1/admin/rounds/{roundID}/deadline", admin(handler.UpdateRoundDeadline))
	mux.Handle("POST /v1/admin/rounds/{roundID}/publish", admin(handler.PublishRound))
	mux.Handle("POST /v1/admin/rounds/{roundID}/unpublish", admin(handler.UnpublishRound))
	mux.Handle("POST /v1/admin/rounds/{roundID}/finalize", admin(handler.FinalizeRound))
	mux.Handle("POST /v1/admin/rounds/{roundID}/unfinalize", admin(handler.UnfinalizeRound))
	mux.Handle("POST /v1/admin/rounds/{roundID}/matches", admin(handler.AddMatch))
	mux.Handle("PUT /v1/admin/rounds/{roundID}/match-of-week", admin(handler.SetMatchOfWeek))

	mux.Handle("GET /v1/admin/matches/postponed", admin(handler.ListPostponedMatches))
	mux.Handle("DELETE /v1/admin/matches/{matchID}", admin(handler.DeleteMatch))
	mux.Handle("PUT /v1/admin/matches/{matchID}/result", admin(handler.SetMatchResult))
	mux.Handle("POST /v1/admin/matches/{matchID}/postpone", admin(handler.PostponeMatch))
	mux.Handle("POST /v1/admin/matches/{matchID}/reschedule", admin(handler.RescheduleMatch))
}
