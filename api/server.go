package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Luismorlan/ledger_in_go/full_node"
	"github.com/Luismorlan/ledger_in_go/logger"
	"github.com/Luismorlan/ledger_in_go/metrics"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/time/rate"
)

// Request bodies above this size are refused.
const MAX_BODY_BYTES = 4 << 20

// Server exposes a full node over HTTP. The routes and payloads match what peers expect from
// GET /get_chain.
type Server struct {
	Router *httprouter.Router

	node *full_node.FullNodeServer
	// Bounds /mine_block, nil means unlimited.
	mineLimiter *rate.Limiter
	log         *logger.Logger
}

func New(node *full_node.FullNodeServer, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	router := httprouter.New()
	s := &Server{
		Router: router,
		node:   node,
		log:    log,
	}
	if limit := node.FullNode().Config().MINE_RATE_LIMIT; limit > 0 {
		s.mineLimiter = rate.NewLimiter(rate.Limit(limit), 1)
	}

	router.GET("/get_chain", s.getChainGet)
	router.GET("/mine_block", s.mineBlockGet)
	router.GET("/is_valid", s.isValidGet)
	router.POST("/add_transaction", s.addTransactionPost)
	router.POST("/connect_node", s.connectNodePost)
	router.GET("/replace_chain", s.replaceChainGet)
	router.GET("/consensus", s.replaceChainGet)
	router.GET("/network/chain", s.networkChainGet)
	router.GET("/search", s.searchGet)
	router.POST("/edit_block_test", s.editBlockPost)
	router.Handler(http.MethodGet, "/metrics", metrics.Handler())

	return s
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// ServeHTTP routes the request and logs its outcome.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.Router.ServeHTTP(rec, r)
	s.log.Debug("http request", "method", r.Method, "path", r.URL.Path, "status", rec.status,
		"duration", time.Since(start))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Message: message})
}

// Decode a json body keeping numbers exact. Trailing data after the value is refused.
func decodeBody(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, MAX_BODY_BYTES+1))
	if err != nil {
		return err
	}
	if len(body) > MAX_BODY_BYTES {
		return errors.New("request body too large")
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after json value")
	}
	return nil
}
