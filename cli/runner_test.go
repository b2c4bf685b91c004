package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreasSchmid1988/workpro-frontend/mock"
)

type session struct {
	t      *testing.T
	server *mock.HTTPTestServer
	config string
}

func newSession(t *testing.T) *session {
	t.Helper()
	server, err := mock.NewHTTPTestServer()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	content := fmt.Sprintf(`env: development
api:
  base_url: %s
auth:
  client_id: "%s"
  client_secret: %s
store:
  kind: file
  url: %s
logging:
  level: error
`, server.URL, mock.ClientID, mock.ClientSecret, filepath.Join(dir, "tokens.json"))
	config := filepath.Join(dir, "workpro.yaml")
	require.NoError(t, os.WriteFile(config, []byte(content), 0o600))
	return &session{t: t, server: server, config: config}
}

func (s *session) run(args ...string) (map[string]any, error) {
	var out bytes.Buffer
	if err := run(context.Background(), append([]string{"-c", s.config}, args...), &out); err != nil {
		return nil, err
	}
	var ret map[string]any
	if out.Len() > 0 && out.Bytes()[0] == '{' {
		require.NoError(s.t, json.Unmarshal(out.Bytes(), &ret))
	}
	return ret, nil
}

func TestRun_Session(t *testing.T) {
	s := newSession(t)
	ids := s.server.Seed("leads", 12, nil)

	_, err := s.run("whoami")
	require.Error(t, err)

	user, err := s.run("login", "-u", mock.Email, "-p", mock.Password)
	require.NoError(t, err)
	assert.Equal(t, mock.Email, user["email"])

	// the token pair is read back from the file store by a new process
	user, err = s.run("whoami")
	require.NoError(t, err)
	assert.Equal(t, mock.Email, user["email"])

	page, err := s.run("list", "leads", "--page", "2", "--per-page", "5")
	require.NoError(t, err)
	assert.Len(t, page["items"], 5)
	pagination := page["pagination"].(map[string]any)
	assert.EqualValues(t, 12, pagination["RowsNumber"])
	assert.EqualValues(t, 2, pagination["Page"])

	record, err := s.run("get", "leads", ids[0])
	require.NoError(t, err)
	assert.Equal(t, ids[0], record["id"])

	_, err = s.run("delete", "leads", ids[0])
	require.NoError(t, err)
	assert.Equal(t, 11, s.server.Len("leads"))

	_, err = s.run("logout")
	require.NoError(t, err)
	_, err = s.run("list", "leads")
	require.Error(t, err)
}

func TestRun_Errors(t *testing.T) {
	s := newSession(t)
	_, err := s.run("login", "-u", mock.Email, "-p", mock.Password)
	require.NoError(t, err)

	_, err = s.run("list", "unknown")
	assert.ErrorContains(t, err, `unknown resource "unknown"`)

	_, err = s.run()
	assert.Error(t, err)

	_, err = s.run("login", "-u", mock.Email, "-p", "wrong")
	assert.Error(t, err)
}
