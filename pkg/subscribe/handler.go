package subscribe

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Route 订阅接口路径
const Route = "/api/subscribe"

// MaxBodyBytes 请求体上限
const MaxBodyBytes = 16 << 10

var (
	// ErrRateLimited 客户端在当前窗口内请求过多
	ErrRateLimited = errors.New("too many requests")
	// ErrInvalidEmail 邮箱缺失或格式不正确
	ErrInvalidEmail = errors.New("a valid email address is required")
)

type subscribeRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
	PageURI   string `json:"pageUri"`
	PageName  string `json:"pageName"`
	Consent   bool   `json:"consent"`
}

type subscribeResponse struct {
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Handler 处理 POST /api/subscribe
type Handler struct {
	submitter     Submitter
	limiter       *Limiter
	logger        *zap.Logger
	allowedOrigin string
	timeout       time.Duration
	trustProxy    bool
}

// NewHandler 创建订阅处理器
//
// 参数:
//   - cfg: 服务配置（允许的来源、上游超时）
//   - submitter: 表单提交客户端
//   - limiter: 限流器，由调用方负责 Stop
//   - logger: 为 nil 时不输出日志
func NewHandler(cfg Config, submitter Submitter, limiter *Limiter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		submitter:     submitter,
		limiter:       limiter,
		logger:        logger,
		allowedOrigin: cfg.AllowedOrigin,
		timeout:       cfg.Timeout,
		trustProxy:    cfg.TrustForwarded,
	}
}

// ServeHTTP 实现 http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	w.Header().Set("X-Request-Id", requestID)
	log := h.logger.With(zap.String("request_id", requestID))

	h.writeCORS(w, r)

	if r.Method == http.MethodOptions && h.allowedOrigin != "" {
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, subscribeResponse{Error: "method not allowed", RequestID: requestID})
		return
	}

	ip := ClientIP(r, h.trustProxy)
	if ok, retry := h.limiter.Allow(ip); !ok {
		seconds := int(math.Ceil(retry.Seconds()))
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		log.Info("subscribe rate limited", zap.String("ip", ip), zap.Int("retry_after", seconds))
		writeJSON(w, http.StatusTooManyRequests, subscribeResponse{Error: ErrRateLimited.Error(), RequestID: requestID})
		return
	}

	sub, err := decodeSubmission(w, r)
	if err != nil {
		log.Info("subscribe rejected", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, subscribeResponse{Error: err.Error(), RequestID: requestID})
		return
	}
	sub.IPAddress = ip

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := h.submitter.Submit(ctx, sub); err != nil {
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			log.Warn("subscribe upstream rejected", zap.Int("status", upstream.StatusCode), zap.String("body", upstream.Body))
		} else {
			log.Error("subscribe upstream failed", zap.Error(err))
		}
		writeJSON(w, http.StatusBadGateway, subscribeResponse{Error: "subscription service unavailable", RequestID: requestID})
		return
	}

	log.Info("subscribed", zap.String("page", sub.PageURI))
	writeJSON(w, http.StatusOK, subscribeResponse{OK: true})
}

func (h *Handler) writeCORS(w http.ResponseWriter, r *http.Request) {
	if h.allowedOrigin == "" {
		return
	}
	origin := r.Header.Get("Origin")
	switch {
	case h.allowedOrigin == "*":
		w.Header().Set("Access-Control-Allow-Origin", "*")
	case origin != "" && strings.EqualFold(origin, h.allowedOrigin):
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}
}

func decodeSubmission(w http.ResponseWriter, r *http.Request) (Submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Submission{}, errors.New("request body too large")
		}
		return Submission{}, errors.New("invalid JSON body")
	}

	email, err := validateEmail(req.Email)
	if err != nil {
		return Submission{}, err
	}
	return Submission{
		Email:     email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Company:   strings.TrimSpace(req.Company),
		PageURI:   strings.TrimSpace(req.PageURI),
		PageName:  strings.TrimSpace(req.PageName),
		Consent:   req.Consent,
	}, nil
}

// validateEmail 只接受裸地址，不接受 "Name <addr>" 形式
func validateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" || len(email) > 254 {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func writeJSON(w http.ResponseWriter, status int, body subscribeResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
