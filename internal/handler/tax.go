package handler

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"taxmate-go/internal/model"
	"taxmate-go/internal/service"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// maxFormBytes 表单大小上限
const maxFormBytes = 64 << 10

type indexPage struct {
	Token  string
	Input  string
	Notice string
	Advice *model.Advice
}

// TaxHandler 税务对比HTTP处理器
type TaxHandler struct {
	service *service.TaxService
	tokens  *TokenSigner
	logger  *zap.Logger
}

// NewTaxHandler 创建处理器
func NewTaxHandler(svc *service.TaxService, tokens *TokenSigner, logger *zap.Logger) *TaxHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaxHandler{service: svc, tokens: tokens, logger: logger}
}

// Index 表单页
// GET / 空表单
// POST / 表单字段 user_input
func (h *TaxHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.render(w, &indexPage{})
	case http.MethodPost:
		h.submit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TaxHandler) submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if err := h.tokens.Verify(r.PostFormValue("csrf_token")); err != nil {
		h.logger.Warn("Rejected form submission", zap.Error(err), zap.String("remote", r.RemoteAddr))
		http.Error(w, "invalid or expired form, please reload the page", http.StatusForbidden)
		return
	}

	input := strings.TrimSpace(r.PostFormValue("user_input"))
	if input == "" {
		h.render(w, &indexPage{Notice: "Please describe your income and deductions."})
		return
	}

	h.logger.Info("Starting tax comparison", zap.Int("input_len", len(input)))

	advice := h.service.Advise(r.Context(), input)
	h.render(w, &indexPage{Input: input, Advice: advice})
}

func (h *TaxHandler) render(w http.ResponseWriter, page *indexPage) {
	token, err := h.tokens.Issue()
	if err != nil {
		h.logger.Error("Failed to issue form token", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	page.Token = token

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, page); err != nil {
		h.logger.Error("Failed to render page", zap.Error(err))
	}
}

// Health 健康检查
func (h *TaxHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
