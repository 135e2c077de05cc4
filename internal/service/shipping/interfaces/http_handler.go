package interfaces

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"nexmall/internal/pkg/logger"
	"nexmall/internal/pkg/tracing"
	"nexmall/internal/service/shipping/application"
	"nexmall/internal/service/shipping/domain"
)

const serviceName = "shipping-service"

var carrierCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "nexmall_carrier_calls_total",
	Help: "Carrier operations by kind and outcome.",
}, []string{"operation", "outcome"})

// 查询类接口的响应信封，和订单服务保持同一约定。
type apiResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ShippingHandler 封装发货网关的 HTTP 处理器
type ShippingHandler struct {
	service *application.ShippingApplicationService
	tracer  trace.Tracer
}

// NewShippingHandler 创建一个新的 HTTP 处理器实例
func NewShippingHandler(service *application.ShippingApplicationService) *ShippingHandler {
	return &ShippingHandler{service: service, tracer: otel.Tracer(serviceName)}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *ShippingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("POST /shipping/create-order", h.createOrder)
	mux.HandleFunc("POST /shipping/cancel/{idOrder}", h.cancelOrder)
	mux.HandleFunc("GET /shipping/order-status/{idOrder}", h.orderStatus)
	mux.HandleFunc("POST /shipping/fee", h.calculateFee)
}

func (h *ShippingHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "http.CreateShipment")
	defer span.End()
	ctx = logger.WithTraceID(ctx, tracing.GetTraceIDFromContext(ctx))

	var req application.BookShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, application.BookShipmentResponse{Success: false, Message: "invalid request body"})
		return
	}
	if req.Order.OrderID == "" || len(req.Products) == 0 {
		writeJSON(w, http.StatusBadRequest, application.BookShipmentResponse{Success: false, Message: "order id and products are required"})
		return
	}

	resp, err := h.service.CreateShipment(ctx, &req)
	if err != nil {
		carrierCallsTotal.WithLabelValues("create", "error").Inc()
		h.writeCarrierError(w, r, err, &application.BookShipmentResponse{Success: false, Message: err.Error()})
		return
	}
	carrierCallsTotal.WithLabelValues("create", "ok").Inc()
	writeJSON(w, http.StatusOK, resp)
}

func (h *ShippingHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "http.CancelShipment")
	defer span.End()
	ctx = logger.WithTraceID(ctx, tracing.GetTraceIDFromContext(ctx))

	resp, err := h.service.CancelShipment(ctx, r.PathValue("idOrder"))
	if err != nil {
		carrierCallsTotal.WithLabelValues("cancel", "error").Inc()
		h.writeCarrierError(w, r, err, &application.CancelShipmentResponse{Success: false, Message: err.Error()})
		return
	}
	carrierCallsTotal.WithLabelValues("cancel", "ok").Inc()
	writeJSON(w, http.StatusOK, resp)
}

func (h *ShippingHandler) orderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "http.OrderStatus")
	defer span.End()
	ctx = logger.WithTraceID(ctx, tracing.GetTraceIDFromContext(ctx))

	resp, err := h.service.OrderStatus(ctx, r.PathValue("idOrder"))
	if err != nil {
		carrierCallsTotal.WithLabelValues("status", "error").Inc()
		h.writeCarrierError(w, r, err, apiResponse{Code: 1000, Data: application.TrackingResponse{Success: false, Message: err.Error()}})
		return
	}
	carrierCallsTotal.WithLabelValues("status", "ok").Inc()
	writeJSON(w, http.StatusOK, apiResponse{Code: 1000, Data: resp})
}

func (h *ShippingHandler) calculateFee(w http.ResponseWriter, r *http.Request) {
	ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	ctx, span := h.tracer.Start(ctx, "http.CalculateFee")
	defer span.End()
	ctx = logger.WithTraceID(ctx, tracing.GetTraceIDFromContext(ctx))

	var req application.FeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Code: 1000, Data: application.FeeResponse{Success: false, Message: "invalid request body"}})
		return
	}

	resp, err := h.service.CalculateFee(ctx, &req)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, apiResponse{Code: 1000, Data: application.FeeResponse{Success: false, Message: err.Error()}})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Code: 1000, Data: resp})
}

// writeCarrierError 区分本地找不到运单（404）和承运商通信失败（502）。
func (h *ShippingHandler) writeCarrierError(w http.ResponseWriter, r *http.Request, err error, body interface{}) {
	status := http.StatusBadGateway
	if errors.Is(err, domain.ErrShipmentNotFound) {
		status = http.StatusNotFound
	}
	logger.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("shipping request failed")
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
