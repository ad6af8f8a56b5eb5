package handlers

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shahriakhansejan/core-bits-server/utils"
)

// HealthResponse reports process and database liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
}

var startTime = time.Now()

// HealthCheck pings the given Mongo client on every call.
func HealthCheck(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			Uptime:    time.Since(startTime).String(),
		}

		code := http.StatusOK
		if client != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			if err := client.Ping(ctx, nil); err != nil {
				response.Status = "unhealthy"
				response.Database = "disconnected"
				code = http.StatusServiceUnavailable
			} else {
				response.Database = "connected"
			}
		}

		utils.RespondWithJSON(w, code, response)
	}
}
