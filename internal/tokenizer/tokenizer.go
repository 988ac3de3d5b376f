// Package tokenizer estimates how many model tokens a rendered snapshot costs.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	// DefaultModel is the model used when none is configured.
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

var openAIModelPrefixes = []string{
	"gpt-",
	"text-embedding",
	"davinci",
	"curie",
	"babbage",
	"ada",
	"code-",
}

// SupportsModel reports whether model has a dedicated encoding. Other models are
// counted with cl100k_base, which only approximates their tokenizers.
func SupportsModel(model string) bool {
	return isOpenAIModel(normalizeModel(model))
}

// NewCounter returns a Counter for the requested model. Unknown models use the cl100k_base encoding.
func NewCounter(model string) (Counter, error) {
	lowerModel := normalizeModel(model)

	if isOpenAIModel(lowerModel) {
		encoding, encodingError := tiktoken.EncodingForModel(lowerModel)
		if encodingError == nil && encoding != nil {
			return openAICounter{encoding: encoding, name: lowerModel}, nil
		}
	}
	encoding, encodingError := tiktoken.GetEncoding(defaultEncodingName)
	if encodingError != nil {
		return nil, fmt.Errorf("initialize default tokenizer: %w", encodingError)
	}
	return openAICounter{encoding: encoding, name: defaultEncodingName}, nil
}

// CountText counts the tokens in text with counter.
func CountText(counter Counter, text string) (int, error) {
	if counter == nil {
		return 0, errors.New("nil tokenizer counter")
	}
	return counter.CountString(text)
}

func normalizeModel(model string) string {
	lowerModel := strings.ToLower(strings.TrimSpace(model))
	if lowerModel == "" {
		return DefaultModel
	}
	return lowerModel
}

func isOpenAIModel(model string) bool {
	for _, prefix := range openAIModelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

type openAICounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter openAICounter) Name() string {
	return counter.name
}

func (counter openAICounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("nil tiktoken encoder")
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(tokenIDs), nil
}
