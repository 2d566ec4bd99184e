package server

import "net/http"

// RegisterAPIRoutes binds the goal, category, rule and scheduling endpoints.
func RegisterAPIRoutes(mux *http.ServeMux, app *App) {
	mux.HandleFunc("GET /api/state", app.handleGetState)

	mux.HandleFunc("POST /api/goals", app.handleCreateGoal)
	mux.HandleFunc("PATCH /api/goals/{id}", app.handleUpdateGoal)
	mux.HandleFunc("DELETE /api/goals/{id}", app.handleDeleteGoal)
	mux.HandleFunc("POST /api/goals/{id}/activate", app.handleActivateGoal)
	mux.HandleFunc("POST /api/goals/{id}/finish", app.handleFinishGoal)
	mux.HandleFunc("POST /api/goals/{id}/abandon", app.handleAbandonGoal)
	mux.HandleFunc("GET /api/goals/{id}/progress", app.handleGoalProgress)

	mux.HandleFunc("POST /api/categories", app.handleCreateCategory)
	mux.HandleFunc("PATCH /api/categories/{id}", app.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", app.handleDeleteCategory)

	mux.HandleFunc("GET /api/rules", app.handleListRules)
	mux.HandleFunc("POST /api/rules/sync", app.handleSyncRules)

	mux.HandleFunc("GET /api/schedule/suggest", app.handleSuggestSlots)
	mux.HandleFunc("GET /api/stats", app.handleStats)
}
