package types

// ImageFile is the file currently selected in the image input.
// A nil *ImageFile means no file is selected.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the file size in bytes
func (f *ImageFile) Size() int64 {
	if f == nil {
		return 0
	}
	return int64(len(f.Data))
}

// PredictionResult is the parsed success response of the prediction endpoint
type PredictionResult struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
	Warning    string  `json:"warning,omitempty"`
	Filename   string  `json:"filename,omitempty"`
}

// PredictResponse is the JSON body returned by the prediction endpoint.
// A non-empty Error marks an application-level failure.
type PredictResponse struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
	Status     int     `json:"status,omitempty"`
	Filename   string  `json:"filename,omitempty"`
	Warning    string  `json:"warning,omitempty"`
}

// LowConfidenceThreshold is the confidence below which a prediction carries a warning
const LowConfidenceThreshold = 0.7

// LowConfidenceWarning is the warning attached to low confidence predictions
const LowConfidenceWarning = "Low confidence prediction"
