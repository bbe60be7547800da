package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// useRecorder 安装内存TracerProvider，测试结束后恢复
func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return sr
}

func TestInitTracer(t *testing.T) {
	// 创建exporter不会立即连接Collector
	shutdown, err := InitTracer("pos-inventory-test", "localhost:4317")
	require.NoError(t, err)
	assert.NotNil(t, shutdown)
}

func TestStartSpan(t *testing.T) {
	sr := useRecorder(t)

	t.Run("子Span继承TraceID", func(t *testing.T) {
		ctx, root := StartSpan(context.Background(), "test", "Root")
		_, child := StartSpan(ctx, "test", "Child")
		child.End()
		root.End()

		assert.Equal(t, root.SpanContext().TraceID(), child.SpanContext().TraceID())
		assert.NotEqual(t, root.SpanContext().SpanID(), child.SpanContext().SpanID())
	})

	t.Run("属性被记录", func(t *testing.T) {
		_, span := StartSpan(context.Background(), "test", "WithAttributes")
		span.SetAttributes(attribute.Int("sale.item_count", 3))
		span.End()

		ended := sr.Ended()
		last := ended[len(ended)-1]
		assert.Equal(t, "WithAttributes", last.Name())
		assert.Contains(t, last.Attributes(), attribute.Int("sale.item_count", 3))
	})
}

func TestRecordError(t *testing.T) {
	sr := useRecorder(t)

	_, span := StartSpan(context.Background(), "test", "Failing")
	RecordError(span, errors.New("库存不足"))
	span.End()

	_, ok := StartSpan(context.Background(), "test", "Ok")
	RecordError(ok, nil)
	ok.End()

	ended := sr.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "库存不足", ended[0].Status().Description)
	assert.NotEqual(t, codes.Error, ended[1].Status().Code, "nil错误不应改变状态")
}

func TestExtractIDs(t *testing.T) {
	useRecorder(t)

	assert.Empty(t, ExtractTraceID(context.Background()))
	assert.Empty(t, ExtractSpanID(context.Background()))

	ctx, span := StartSpan(context.Background(), "test", "Extract")
	defer span.End()

	assert.Len(t, ExtractTraceID(ctx), 32)
	assert.Len(t, ExtractSpanID(ctx), 16)
}
