package server_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/archive-delivery/delivery/config"
	"github.com/Astemirdum/archive-delivery/delivery/internal/server"
)

func TestServer_StopIsNotAnError(t *testing.T) {
	t.Parallel()
	srv := server.NewServer(config.HTTPServer{Host: "127.0.0.1", Port: "0", ReadTimeout: time.Second},
		http.NotFoundHandler())

	done := make(chan error, 1)
	go func() { done <- srv.Run() }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))
	require.NoError(t, <-done)
}
