package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"nexmall/internal/pkg/logger"
	"nexmall/internal/pkg/tracing"
	"nexmall/internal/service/order/application"
	"nexmall/internal/service/order/domain"
)

const serviceName = "order-service"

// 统一响应信封：业务码 1000 表示成功，其余见 domain 错误码表。
type apiResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OrderHandler 封装订单服务的 HTTP 处理器
type OrderHandler struct {
	service *application.OrderApplicationService
	revenue *application.RevenueService
	tracer  trace.Tracer
}

// NewOrderHandler 创建一个新的 HTTP 处理器实例
func NewOrderHandler(service *application.OrderApplicationService, revenue *application.RevenueService) *OrderHandler {
	return &OrderHandler{
		service: service,
		revenue: revenue,
		tracer:  otel.Tracer(serviceName),
	}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *OrderHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("POST /orders", h.createOrder)
	mux.HandleFunc("GET /orders", h.listOrders)
	mux.HandleFunc("GET /orders/{id}", h.getOrder)
	mux.HandleFunc("DELETE /orders/{id}", h.deleteOrder)
	mux.HandleFunc("GET /orders/user/{userId}", h.listUserOrders)
	mux.HandleFunc("GET /orders/my-orders", h.listMyOrders)
	mux.HandleFunc("PUT /orders/cancel/{id}", h.cancelOrder)
	mux.HandleFunc("PUT /orders/{id}/update-status", h.updateStatus)

	mux.HandleFunc("GET /revenue/daily", h.revenueBuckets("http.DailyRevenue", h.revenue.DailyRevenue))
	mux.HandleFunc("GET /revenue/weekly", h.revenueBuckets("http.WeeklyRevenue", h.revenue.WeeklyRevenue))
	mux.HandleFunc("GET /revenue/monthly", h.revenueBuckets("http.MonthlyRevenue", h.revenue.MonthlyRevenue))
	mux.HandleFunc("GET /revenue/yearly", h.revenueBuckets("http.YearlyRevenue", h.revenue.YearlyRevenue))
	mux.HandleFunc("GET /revenue/average-monthly", h.averageMonthlyRevenue)
	mux.HandleFunc("GET /revenue/top-products", h.topProducts)
	mux.HandleFunc("GET /revenue/top-customers", h.topCustomers)
}

func (h *OrderHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "http.CreateOrder")
	defer span.End()
	ctx = logger.WithTraceID(ctx, tracing.GetTraceIDFromContext(ctx))

	var req application.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, domain.ErrValidation.WithMessage("invalid request body"))
		return
	}
	// 买家下单时以网关注入的身份为准
	if userID := r.Header.Get("X-User-Id"); userID != "" {
		req.UserID = userID
	}

	resp, err := h.service.CreateOrder(ctx, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ordersCreatedTotal.Inc()
	span.SetAttributes(attribute.String("order.id", resp.ID))
	h.writeSuccess(w, http.StatusCreated, "order created", resp)
}

func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "http.GetOrder")
	defer span.End()
	ctx = logger.WithTraceID(ctx, tracing.GetTraceIDFromContext(ctx))

	resp, err := h.service.GetOrder(ctx, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "success", resp)
}

func (h *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "http.ListOrders")
	defer span.End()
	ctx = logger.WithTraceID(ctx, tracing.GetTraceIDFromContext(ctx))

	page, size := pageParams(r)
	resp, err := h.service.ListOrders(ctx, page, size, r.URL.Query().Get("query"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "success", resp)
}

func (h *OrderHandler) listUserOrders(w http.ResponseWriter, r *http.Request) {
	h.listOrdersForUser(w, r, r.PathValue("userId"), "http.ListUserOrders")
}

// listMyOrders 买家查自己的订单，身份来自网关注入的请求头。
func (h *OrderHandler) listMyOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		h.writeError(w, r, domain.ErrValidation.WithMessage("missing X-User-Id header"))
		return
	}
	h.listOrdersForUser(w, r, userID, "http.ListMyOrders")
}

func (h *OrderHandler) listOrdersForUser(w http.ResponseWriter, r *http.Request, userID, spanName string) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, spanName)
	defer span.End()
	ctx = logger.WithTraceID(ctx, tracing.GetTraceIDFromContext(ctx))

	var statusFilter *domain.Status
	if name := r.URL.Query().Get("status"); name != "" {
		status, err := domain.ParseStatus(name)
		if err != nil {
			h.writeError(w, r, domain.ErrValidation.WithMessage(err.Error()))
			return
		}
		statusFilter = &status
	}

	page, size := pageParams(r)
	resp, err := h.service.ListUserOrders(ctx, userID, statusFilter, page, size)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "success", resp)
}

func (h *OrderHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "http.CancelOrder")
	defer span.End()
	ctx = logger.WithTraceID(ctx, tracing.GetTraceIDFromContext(ctx))

	resp, err := h.service.CancelOrder(ctx, r.PathValue("id"))
	if err != nil {
		orderTransitionsTotal.WithLabelValues(domain.StatusCanceled.String(), "rejected").Inc()
		h.writeError(w, r, err)
		return
	}
	orderTransitionsTotal.WithLabelValues(domain.StatusCanceled.String(), "applied").Inc()
	h.writeSuccess(w, http.StatusOK, "order canceled", resp)
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "http.UpdateOrderStatus")
	defer span.End()
	ctx = logger.WithTraceID(ctx, tracing.GetTraceIDFromContext(ctx))

	statusName := r.URL.Query().Get("status")
	span.SetAttributes(
		attribute.String("order.id", r.PathValue("id")),
		attribute.String("order.requested_status", statusName),
	)

	resp, err := h.service.AdvanceStatus(ctx, r.PathValue("id"), statusName)
	if err != nil {
		orderTransitionsTotal.WithLabelValues(statusName, "rejected").Inc()
		h.writeError(w, r, err)
		return
	}
	orderTransitionsTotal.WithLabelValues(statusName, "applied").Inc()
	h.writeSuccess(w, http.StatusOK, "status updated", resp)
}

func (h *OrderHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "http.DeleteOrder")
	defer span.End()
	ctx = logger.WithTraceID(ctx, tracing.GetTraceIDFromContext(ctx))

	if err := h.service.DeleteOrder(ctx, r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "order deleted", nil)
}

// revenueBuckets 生成一个按时间框聚合的报表查询处理器。
func (h *OrderHandler) revenueBuckets(spanName string, query func(context.Context) ([]domain.RevenueBucket, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := h.tracer.Start(r.Context(), spanName)
		defer span.End()

		data, err := query(ctx)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeSuccess(w, http.StatusOK, "success", data)
	}
}

func (h *OrderHandler) averageMonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.AverageMonthlyRevenue")
	defer span.End()

	avg, err := h.revenue.AverageMonthlyRevenue(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "success", map[string]float64{"averageMonthlyRevenue": avg})
}

func (h *OrderHandler) topProducts(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.TopProducts")
	defer span.End()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	data, err := h.revenue.TopProducts(ctx, r.URL.Query().Get("timeframe"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "success", data)
}

func (h *OrderHandler) topCustomers(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "http.TopCustomers")
	defer span.End()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	data, err := h.revenue.TopCustomers(ctx, r.URL.Query().Get("timeframe"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSuccess(w, http.StatusOK, "success", data)
}

func (h *OrderHandler) writeSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{Code: 1000, Message: message, Data: data})
}

// writeError 把业务错误映射为信封 + HTTP 状态码，未识别的错误一律 9999/500。
func (h *OrderHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		appErr = domain.ErrUncategorized
	}
	apiErrorsTotal.WithLabelValues(strconv.Itoa(appErr.Code)).Inc()
	logger.Ctx(r.Context()).Warn().Err(err).
		Int("code", appErr.Code).
		Str("path", r.URL.Path).
		Msg("request failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(apiResponse{Code: appErr.Code, Message: appErr.Message})
}

func pageParams(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}
	return page, size
}
