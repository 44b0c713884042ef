package client

import (
	"context"

	"github.com/menta2k/skin-analyzer/pkg/types"
)

// Predictor classifies a single image file
type Predictor interface {
	Predict(ctx context.Context, file *types.ImageFile) (*types.PredictionResult, error)
}
