package chunker

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer counts tokens and extracts token-exact tails. Count and
// Tail must use the same encoding so that decoded overlap text
// round-trips consistently.
type Tokenizer interface {
	Count(text string) (int, error)
	Tail(text string, n int) (string, error)
}

// TokenizationError marks a tokenizer misconfiguration or an
// unexpected encode/decode failure. Fatal, not retried.
type TokenizationError struct {
	Err error
}

func (e *TokenizationError) Error() string {
	return fmt.Sprintf("tokenization failed: %v", e.Err)
}

func (e *TokenizationError) Unwrap() error {
	return e.Err
}

// TiktokenTokenizer wraps a tiktoken encoding. The encoder handle is
// resolved once in the constructor and shared; tiktoken encoders are
// safe for concurrent use.
type TiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

func NewTiktokenTokenizer(model string) (*TiktokenTokenizer, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, &TokenizationError{Err: err}
	}
	return &TiktokenTokenizer{enc: enc}, nil
}

func (t *TiktokenTokenizer) Count(text string) (int, error) {
	return len(t.enc.Encode(text, nil, nil)), nil
}

// Tail returns the text of the last n tokens: encode, slice, decode.
func (t *TiktokenTokenizer) Tail(text string, n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	tokens := t.enc.Encode(text, nil, nil)
	if len(tokens) <= n {
		return text, nil
	}
	return t.enc.Decode(tokens[len(tokens)-n:]), nil
}
