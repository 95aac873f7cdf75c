// Package docs NoteHub dev API
//
// @title  NoteHub dev API
// @version 0.1.0
// @description Local stand-in for the NoteHub notes API with live change streaming.
// @host      localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package docs

import (
	_ "notehub/cmd/devhub/handlers/httperr"
	_ "notehub/internal/clients/notehub"
	_ "notehub/internal/services/notestore"
)
