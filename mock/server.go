package mock

import "net/http/httptest"

// HTTPTestServer runs a Service on an httptest server.
type HTTPTestServer struct {
	*Service
	Server *httptest.Server
	URL    string
}

func NewHTTPTestServer() (*HTTPTestServer, error) {
	service, err := NewService()
	if err != nil {
		return nil, err
	}
	server := &HTTPTestServer{Service: service}
	server.Server = httptest.NewServer(service.Handler())
	service.Issuer = server.Server.URL
	server.URL = server.Server.URL
	return server, nil
}

func (s *HTTPTestServer) Close() {
	if s.Server != nil {
		s.Server.Close()
	}
	s.Server = nil
}
