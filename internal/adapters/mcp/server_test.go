package mcp

import (
	"context"
	"testing"

	"github.com/aretw0/pixelwall/pkg/adapters/memory"
	"github.com/aretw0/pixelwall/pkg/canvas"
	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *canvas.Canvas) {
	t.Helper()
	wall, err := canvas.New(memory.NewStore(), canvas.WithSize(16))
	require.NoError(t, err)
	return NewServer(wall, nil), wall
}

func newCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestHandleSetPixel(t *testing.T) {
	s, wall := newTestServer(t)
	ctx := context.Background()
	args := map[string]any{"id": "07", "color": " #ff0000 "}

	resp, err := s.handleSetPixel(ctx, newCallToolRequest("set_pixel", args), args)
	require.NoError(t, err)

	assert.Equal(t, SetPixelResponse{Success: true, ID: 7, Color: "#ff0000"}, resp)
	assert.Equal(t, "#ff0000", wall.Load(ctx)[7])
}

func TestHandleSetPixel_Rejected(t *testing.T) {
	s, wall := newTestServer(t)
	ctx := context.Background()

	cases := []map[string]any{
		{"id": "16", "color": "#fff"},
		{"id": "abc", "color": "#fff"},
		{"color": "#fff"},
		{"id": "1"},
	}
	for _, args := range cases {
		_, err := s.handleSetPixel(ctx, newCallToolRequest("set_pixel", args), args)
		assert.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	}

	assert.Equal(t, domain.NewDefaultGrid(16, domain.DefaultColor), wall.Load(ctx))
}

func TestNewServer_Configured(t *testing.T) {
	s, _ := newTestServer(t)

	assert.NotNil(t, s.MCPServer())
}
