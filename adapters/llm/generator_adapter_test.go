package llm

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"datascout/internal/errors"
	"datascout/ports"
)

var testSig = ports.Signature{
	Name:        "SchemaInterpreter",
	Description: "Interprets a column.",
	Inputs: []ports.Field{
		{Name: "column_name", Description: "Name of the column"},
		{Name: "dtype", Description: "Storage data type"},
	},
	Outputs: []ports.Field{
		{Name: "business_type", Description: "Business type"},
		{Name: "confidence", Description: "Confidence level"},
	},
}

func TestGenerateParsesOutputs(t *testing.T) {
	mock := &MockLLMClient{Response: `{"business_type": "Identifier", "confidence": "high"}`}
	gen := NewGeneratorAdapterWithClient(Config{Model: "test"}, mock)

	out, err := gen.Generate(context.Background(), testSig, map[string]string{
		"column_name": "customer_id",
		"dtype":       "int64",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out["business_type"] != "Identifier" || out["confidence"] != "high" {
		t.Errorf("outputs = %v", out)
	}
}

func TestGenerateStripsCodeFences(t *testing.T) {
	mock := &MockLLMClient{Response: "Here you go:\n```json\n{\"business_type\": \"Text\", \"confidence\": \"low\"}\n```\nHope that helps."}
	gen := NewGeneratorAdapterWithClient(Config{Model: "test"}, mock)

	out, err := gen.Generate(context.Background(), testSig, map[string]string{"column_name": "notes", "dtype": "object"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out["business_type"] != "Text" {
		t.Errorf("business_type = %q", out["business_type"])
	}
}

func TestGenerateMissingFieldFails(t *testing.T) {
	mock := &MockLLMClient{Response: `{"business_type": "Identifier"}`}
	gen := NewGeneratorAdapterWithClient(Config{Model: "test"}, mock)

	_, err := gen.Generate(context.Background(), testSig, map[string]string{"column_name": "id", "dtype": "int64"})
	if err == nil {
		t.Fatal("expected an error for missing output field")
	}
	if !errors.IsGenerationFailure(err) {
		t.Errorf("error code = %q, want generation failure", errors.GetCode(err))
	}
}

func TestGenerateClientError(t *testing.T) {
	mock := &MockLLMClient{Error: fmt.Errorf("rate limited")}
	gen := NewGeneratorAdapterWithClient(Config{Model: "test"}, mock)

	_, err := gen.Generate(context.Background(), testSig, map[string]string{"column_name": "id", "dtype": "int64"})
	if !errors.IsGenerationFailure(err) {
		t.Fatalf("expected generation failure, got %v", err)
	}
}

func TestGenerateCoercesNonStringValues(t *testing.T) {
	mock := &MockLLMClient{Response: `{"business_type": "Numeric Metric", "confidence": 0.9}`}
	gen := NewGeneratorAdapterWithClient(Config{Model: "test"}, mock)

	out, err := gen.Generate(context.Background(), testSig, map[string]string{"column_name": "amount", "dtype": "float64"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out["confidence"] != "0.9" {
		t.Errorf("confidence = %q, want %q", out["confidence"], "0.9")
	}
}

func TestBuildPromptOrdersInputs(t *testing.T) {
	gen := NewGeneratorAdapterWithClient(Config{Model: "test"}, &MockLLMClient{})
	prompt := gen.BuildPrompt(testSig, map[string]string{
		"dtype":       "int64",
		"column_name": "customer_id",
		"unused":      "dropped",
	})
	ci := strings.Index(prompt, "column_name")
	di := strings.Index(prompt, "### dtype")
	if ci < 0 || di < 0 || ci > di {
		t.Errorf("inputs not rendered in signature order:\n%s", prompt)
	}
	if strings.Contains(prompt, "dropped") {
		t.Error("undeclared input should be ignored")
	}
	if !strings.Contains(prompt, `"business_type"`) || !strings.Contains(prompt, `"confidence"`) {
		t.Error("prompt should declare output fields")
	}
}

func TestCleanJSONContent(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"Sure! {\"a\": 1} Done.", `{"a": 1}`},
	}
	for _, tc := range cases {
		if got := cleanJSONContent(tc.in); got != tc.want {
			t.Errorf("cleanJSONContent(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
