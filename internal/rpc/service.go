package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	ServiceName = "teamlookup.v1.TeamLookupService"

	// ServicePath is the mux pattern that routes every procedure of the service.
	ServicePath = "/" + ServiceName + "/"

	LookupProcedure = ServicePath + "Lookup"

	SessionHeader = "X-Session-ID"
)

type TeamLookupHandler interface {
	Lookup(context.Context, *connect.Request[LookupRequest], *connect.ServerStream[LookupEvent]) error
}

// NewTeamLookupHandler builds an HTTP handler for the service and returns the
// path to mount it on.
func NewTeamLookupHandler(svc TeamLookupHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	lookup := connect.NewServerStreamHandler(LookupProcedure, svc.Lookup, opts...)

	return ServicePath, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LookupProcedure:
			lookup.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

type TeamLookupClient struct {
	lookup *connect.Client[LookupRequest, LookupEvent]
}

func NewTeamLookupClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TeamLookupClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)

	return &TeamLookupClient{
		lookup: connect.NewClient[LookupRequest, LookupEvent](httpClient, baseURL+LookupProcedure, opts...),
	}
}

func (c *TeamLookupClient) Lookup(ctx context.Context, req *connect.Request[LookupRequest]) (*connect.ServerStreamForClient[LookupEvent], error) {
	return c.lookup.CallServerStream(ctx, req)
}
