package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/entrystore/internal/common"
	"github.com/dmitrijs2005/entrystore/internal/dbx"
	"github.com/dmitrijs2005/entrystore/internal/server/entries"
)

const maxPayloadBytes = 1 << 20

// respond runs fn on a leased connection and writes its result as a
// plain-text 200 body, or maps the error to a status.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, conn dbx.DBTX) (string, error)) {
	var body string
	err := s.pool.WithConn(r.Context(), func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		body, err = fn(ctx, conn)
		return err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeText(w, http.StatusOK, body)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrPoolUnavailable) || errors.Is(err, common.ErrStoreUnavailable) {
		s.logger.Error(r.Context(), "store unavailable", "error", err)
		writeText(w, http.StatusServiceUnavailable, http.StatusText(http.StatusServiceUnavailable))
		return
	}
	s.logger.Error(r.Context(), "request failed", "error", err)
	writeText(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// position parses a non-negative path value. Anything else is treated as
// an unmatched route.
func position(r *http.Request) (uint64, bool) {
	i, err := strconv.ParseUint(r.PathValue("i"), 10, 63)
	if err != nil {
		return 0, false
	}
	return i, true
}

// payload reads the request body. An empty body means "no payload".
func payload(w http.ResponseWriter, r *http.Request) (*string, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return nil, nil
	}
	p := string(b)
	return &p, nil
}

// rejectBody answers a failed body read: 413 when the payload limit was
// hit, 400 for anything else (client abort, broken chunked encoding).
func (s *Server) rejectBody(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeText(w, http.StatusRequestEntityTooLarge, http.StatusText(http.StatusRequestEntityTooLarge))
		return
	}
	s.logger.Warn(r.Context(), "read request body", "error", err)
	writeText(w, http.StatusBadRequest, http.StatusText(http.StatusBadRequest))
}

// handleList serves GET /: every entry from the Unix epoch until now.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func(ctx context.Context, conn dbx.DBTX) (string, error) {
		list, err := s.store.GetRange(ctx, conn, time.Unix(0, 0), s.now())
		if errors.Is(err, common.ErrorNotFound) {
			return common.NoEntriesSentinel, nil
		}
		if err != nil {
			return "", err
		}
		body, err := entries.EncodeAll(list)
		if err != nil {
			return "", err
		}
		if body == "" {
			return common.NoEntriesSentinel, nil
		}
		return body, nil
	})
}

// handleFetch serves GET /{i}.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	i, ok := position(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.respond(w, r, func(ctx context.Context, conn dbx.DBTX) (string, error) {
		count, err := s.store.Count(ctx, conn)
		if err != nil {
			return "", err
		}
		e, err := s.store.GetOne(ctx, conn, entries.ResolveFetch(i, count))
		if errors.Is(err, common.ErrorNotFound) {
			return common.NoEntrySentinel, nil
		}
		if err != nil {
			return "", err
		}
		return entries.Encode(e)
	})
}

// handleRemove serves GET /rm/{i}.
func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	i, ok := position(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.respond(w, r, func(ctx context.Context, conn dbx.DBTX) (string, error) {
		count, err := s.store.Count(ctx, conn)
		if err != nil {
			return "", err
		}
		id := entries.ResolveDelete(i, count)
		n, err := s.store.DeleteOne(ctx, conn, id)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return fmt.Sprintf("no record %d (reported deletion of %d records)", id, n), nil
		}
		return fmt.Sprintf("deleted %d", id), nil
	})
}

// handleCreate serves POST /. The request body is the payload.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	p, err := payload(w, r)
	if err != nil {
		s.rejectBody(w, r, err)
		return
	}
	s.respond(w, r, func(ctx context.Context, conn dbx.DBTX) (string, error) {
		e, err := s.store.Create(ctx, conn, p)
		if err != nil {
			return "", err
		}
		return entries.Encode(e)
	})
}

// handleEdit serves PUT /{i}. The path value is an id, not a position.
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := position(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	p, err := payload(w, r)
	if err != nil {
		s.rejectBody(w, r, err)
		return
	}
	s.respond(w, r, func(ctx context.Context, conn dbx.DBTX) (string, error) {
		e, err := s.store.Edit(ctx, conn, int64(id), p)
		if errors.Is(err, common.ErrorNotFound) {
			return common.NoEntriesSentinel, nil
		}
		if err != nil {
			return "", err
		}
		body, err := entries.Encode(e)
		if err != nil || body == "" {
			return common.NoEntriesSentinel, nil
		}
		return body, nil
	})
}

// handleCount serves GET /count.
func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func(ctx context.Context, conn dbx.DBTX) (string, error) {
		n, err := s.store.Count(ctx, conn)
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	})
}

// handleRemoveRange serves DELETE /range?start=<unix>&end=<unix>.
func (s *Server) handleRemoveRange(w http.ResponseWriter, r *http.Request) {
	start, err := unixParam(r, "start")
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := unixParam(r, "end")
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}
	s.respond(w, r, func(ctx context.Context, conn dbx.DBTX) (string, error) {
		n, err := s.store.DeleteRange(ctx, conn, start, end)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("deleted %d records", n), nil
	})
}

func unixParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: want unix seconds", name, raw)
	}
	return time.Unix(secs, 0), nil
}
