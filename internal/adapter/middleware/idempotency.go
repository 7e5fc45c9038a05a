package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const (
	// How long the "in-progress" lock holds before the finishing handler must refresh it.
	provisionalLockTTL = 60 * time.Second
	// Allowed client/server clock skew for Ax-Request-At (in UTC).
	maxClockSkew = 10 * time.Minute

	storeTimeout = 2 * time.Second
)

type idempEntry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

type respRecorder struct {
	w    http.ResponseWriter
	buf  *bytes.Buffer
	code int
}

func (r *respRecorder) Header() http.Header { return r.w.Header() }
func (r *respRecorder) Write(b []byte) (int, error) {
	if r.buf != nil {
		r.buf.Write(b)
	}
	return r.w.Write(b)
}
func (r *respRecorder) WriteHeader(statusCode int) { r.code = statusCode; r.w.WriteHeader(statusCode) }

// idempHeaders is the validated trio every mutating request must carry.
type idempHeaders struct {
	RequestID string
	ActorID   string
	RequestAt time.Time
}

func readIdempHeaders(req *http.Request) (idempHeaders, string) {
	var h idempHeaders

	h.RequestID = strings.TrimSpace(req.Header.Get("Ax-Request-Id"))
	if h.RequestID == "" {
		return h, "missing Ax-Request-Id"
	}
	if !validReqID(h.RequestID) {
		return h, "invalid Ax-Request-Id format"
	}

	at, err := parseAxRequestAt(req.Header.Get("Ax-Request-At"))
	if err != nil {
		return h, err.Error()
	}
	now := nowUTC()
	if at.Before(now.Add(-maxClockSkew)) || at.After(now.Add(maxClockSkew)) {
		return h, "Ax-Request-At too skewed"
	}
	h.RequestAt = at

	h.ActorID = strings.TrimSpace(req.Header.Get("Ax-Actor-Id"))
	if h.ActorID == "" {
		return h, "missing Ax-Actor-Id"
	}
	if !reHex32.MatchString(h.ActorID) {
		return h, "invalid Ax-Actor-Id"
	}
	return h, ""
}

// Idempotency guards mutating approval/budget routes: key = method + route +
// actor id + request id. A replayed Ax-Request-Id returns the recorded
// response instead of re-running the transition.
// Ax-Request-At must be epoch (seconds or ms) OR RFC3339/RFC3339Nano with a timezone.
func Idempotency(rdb *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			hdr, badHdr := readIdempHeaders(req)
			if badHdr != "" {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": badHdr})
			}

			// Buffer & hash body
			var body []byte
			if req.Body != nil {
				body, _ = io.ReadAll(req.Body)
			}
			req.Body = io.NopCloser(bytes.NewBuffer(body))
			bhash := bodyHash(body)

			key := buildKey(req.Method, c.Path(), hdr.ActorID, hdr.RequestID)
			ctx, cancel := context.WithTimeout(req.Context(), storeTimeout)
			defer cancel()

			entry := idempEntry{
				InProgress:  true,
				BodySHA256:  bhash,
				RequestID:   hdr.RequestID,
				RequestAtMS: hdr.RequestAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}
			acquired, err := provisionalSet(ctx, rdb, key, entry)
			if err != nil {
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
			}
			if !acquired {
				// Key exists: body must match, and we may be able to replay
				cur, errLoad := loadEntry(ctx, rdb, key)
				if errLoad != nil {
					return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "idempotency store unavailable"})
				}
				if cur.BodySHA256 != "" && cur.BodySHA256 != bhash {
					return c.JSON(http.StatusConflict, map[string]string{"error": "Ax-Request-Id reused with different body"})
				}
				if !cur.InProgress && cur.Code != 0 && len(cur.Body) > 0 {
					return c.Blob(cur.Code, echo.MIMEApplicationJSON, cur.Body)
				}
				return c.JSON(http.StatusConflict, map[string]string{"error": "request is already in progress"})
			}

			// Call next and record the final response
			rec := &respRecorder{w: c.Response().Writer, buf: &bytes.Buffer{}, code: http.StatusOK}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			final := idempEntry{
				InProgress:  false,
				Code:        rec.code,
				Body:        rec.buf.Bytes(),
				BodySHA256:  bhash,
				RequestID:   hdr.RequestID,
				RequestAtMS: hdr.RequestAt.UnixMilli(),
				CreatedAt:   nowUTC(),
			}
			_ = saveFinal(context.Background(), rdb, key, final, ttl)
			return nil
		}
	}
}
