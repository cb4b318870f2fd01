package rpc

import (
	"bytes"
	"context"
	stdjson "encoding/json"
	"errors"
	"fmt"

	"github.com/ppiankov/satrarity/internal/model"
)

type method func(ctx context.Context, params stdjson.RawMessage) (any, error)

func (s *Server) registry() map[string]method {
	return map[string]method{
		"getHealth":        s.getHealth,
		"getSatRanges":     s.getSatRanges,
		"getBlockRarities": s.getBlockRarities,
	}
}

func (s *Server) getHealth(ctx context.Context, params stdjson.RawMessage) (any, error) {
	return "OK", nil
}

func (s *Server) getSatRanges(ctx context.Context, params stdjson.RawMessage) (any, error) {
	var req model.SatRangesRequest
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	return s.pipeline.GetSatRanges(ctx, req.Refs())
}

func (s *Server) getBlockRarities(ctx context.Context, params stdjson.RawMessage) (any, error) {
	var req model.BlockRaritiesRequest
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	return s.pipeline.ClassifyRange(ctx, req.Start, req.End)
}

var errMissingParams = errors.New("missing params")

// decodeParams accepts params either as an object or as a one-element array
func decodeParams(params stdjson.RawMessage, v any) error {
	params = bytes.TrimSpace(params)
	if len(params) == 0 || bytes.Equal(params, []byte("null")) {
		return errMissingParams
	}
	if params[0] == '[' {
		var list []stdjson.RawMessage
		if err := json.Unmarshal(params, &list); err != nil {
			return fmt.Errorf("invalid params: %w", err)
		}
		if len(list) != 1 {
			return fmt.Errorf("invalid params: want 1 positional parameter, got %d", len(list))
		}
		params = list[0]
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}
