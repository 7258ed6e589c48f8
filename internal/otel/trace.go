package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/yenkart/yenkart/internal/constants"
)

var Tracer = otel.Tracer(constants.APP_YENKART)
