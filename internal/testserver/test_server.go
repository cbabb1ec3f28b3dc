// Package testserver builds the full backoffice stack over an in-memory
// SQLite database for tests.
package testserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/backoffice/internal/dashboard"
	"github.com/rpggio/backoffice/internal/identity"
	"github.com/rpggio/backoffice/internal/mcp"
	"github.com/rpggio/backoffice/internal/metrics"
	"github.com/rpggio/backoffice/internal/sqlite"
	"github.com/rpggio/backoffice/internal/transport"
)

const (
	TenantID = "test-app"
	Secret   = "test-secret"
)

type TestServer struct {
	Server  *httptest.Server
	DB      *sqlite.DB
	Store   *sqlite.DocumentStore
	Host    *dashboard.Host
	Metrics *metrics.Metrics
	MCP     *sdkmcp.Server
	// Token is a bearer token for UserID.
	Token  string
	UserID string
}

// New starts a server signed in as uid through the custom token path.
func New(t *testing.T, uid string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	docs := sqlite.NewDocumentStore(db, nil)
	m := metrics.New()
	store := m.InstrumentStore(docs)

	verifier, err := identity.NewVerifier(Secret, TenantID)
	require.NoError(t, err)
	minter, err := identity.NewMinter(Secret, TenantID)
	require.NoError(t, err)
	token, err := minter.Mint(uid, time.Hour)
	require.NoError(t, err)

	provider := identity.NewLocalProvider(sqlite.NewAuthRepository(db), TenantID, "test-client", verifier, nil)
	resolver := identity.NewResolver(provider, token, nil)
	resolver.Start(context.Background())

	host := dashboard.NewHost(store, TenantID, dashboard.Options{Observer: m}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, host.Establish(ctx, resolver))
	d, err := host.Dashboard()
	require.NoError(t, err)
	require.NoError(t, d.WaitLoaded(ctx))

	server := mcp.NewServer(mcp.Config{Source: host, Version: "test"})
	httpServer := httptest.NewServer(transport.NewHandler(transport.Config{
		MCP:      server,
		Source:   host,
		Verifier: verifier,
		Metrics:  m.Handler(),
	}))

	t.Cleanup(func() {
		httpServer.Close()
		host.Close()
		docs.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:  httpServer,
		DB:      db,
		Store:   docs,
		Host:    host,
		Metrics: m,
		MCP:     server,
		Token:   token,
		UserID:  uid,
	}
}

// Dashboard returns the established dashboard.
func (ts *TestServer) Dashboard(t *testing.T) *dashboard.Dashboard {
	t.Helper()
	d, err := ts.Host.Dashboard()
	require.NoError(t, err)
	return d
}

// Await blocks until cond holds on the dashboard.
func (ts *TestServer) Await(t *testing.T, cond func(d *dashboard.Dashboard) bool) {
	t.Helper()
	d := ts.Dashboard(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.AwaitChange(ctx, func() bool { return cond(d) }))
}

// Connect opens an in-memory MCP client session to the server.
func Connect(t *testing.T, server *sdkmcp.Server) *sdkmcp.ClientSession {
	t.Helper()

	ctx := context.Background()
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
	})
	return session
}

// CallTool calls a tool that must succeed and decodes its structured output
// into out.
func CallTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()

	result := call(t, session, name, args)
	require.False(t, result.IsError, "tool %s failed: %s", name, ToolText(result))
	if out == nil {
		return
	}
	require.NoError(t, json.Unmarshal([]byte(ToolText(result)), out))
}

// CallToolError calls a tool that must fail and returns its error text.
func CallToolError(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) string {
	t.Helper()

	result := call(t, session, name, args)
	require.True(t, result.IsError, "tool %s unexpectedly succeeded: %s", name, ToolText(result))
	return ToolText(result)
}

func call(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if args == nil {
		args = map[string]any{}
	}
	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return result
}

// ToolText concatenates the text content of a tool result.
func ToolText(result *sdkmcp.CallToolResult) string {
	var b strings.Builder
	for _, c := range result.Content {
		if text, ok := c.(*sdkmcp.TextContent); ok {
			b.WriteString(text.Text)
		}
	}
	return b.String()
}
