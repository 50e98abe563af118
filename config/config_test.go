package config

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":          "9090",
		"BAD_INT":       "nine",
		"AUTO_MIGRATE":  "true",
		"ORIGINS":       " http://a.dev , ,http://b.dev",
		"EMPTY":         "",
		"READ_TIMEOUT":  "5",
		"NOT_A_BOOLEAN": "maybe",
	}

	if got := GetInt(c, "PORT", 8080); got != 9090 {
		t.Errorf("Expected 9090, got %d", got)
	}
	if got := GetInt(c, "BAD_INT", 8080); got != 8080 {
		t.Errorf("Expected fallback 8080, got %d", got)
	}
	if !GetBool(c, "AUTO_MIGRATE", false) {
		t.Error("Expected AUTO_MIGRATE to be true")
	}
	if GetBool(c, "NOT_A_BOOLEAN", false) {
		t.Error("Expected fallback false for unparsable bool")
	}
	if got := GetString(c, "EMPTY", "default"); got != "default" {
		t.Errorf("Expected empty value to fall back, got %q", got)
	}
	if got := GetSeconds(c, "READ_TIMEOUT", 180); got != 5*time.Second {
		t.Errorf("Expected 5s, got %v", got)
	}

	origins := GetList(c, "ORIGINS")
	if len(origins) != 2 || origins[0] != "http://a.dev" || origins[1] != "http://b.dev" {
		t.Errorf("Unexpected origins: %v", origins)
	}
	if GetList(c, "MISSING") != nil {
		t.Error("Expected nil list for missing key")
	}
}

func TestMergeOverridesKeys(t *testing.T) {
	c := map[string]string{"A": "1", "B": "2"}
	Merge(c, map[string]string{"B": "3", "C": "4"})

	if c["A"] != "1" || c["B"] != "3" || c["C"] != "4" {
		t.Errorf("Unexpected merge result: %v", c)
	}
}

type fakeParameterFetcher struct {
	pages [][]types.Parameter
	calls int
}

func (f *fakeParameterFetcher) GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	page := f.pages[f.calls]
	f.calls++
	out := &ssm.GetParametersByPathOutput{Parameters: page}
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestFetchParametersFollowsPages(t *testing.T) {
	fetcher := &fakeParameterFetcher{pages: [][]types.Parameter{
		{{Name: aws.String("/appcollab/prod/supabase_jwt_secret"), Value: aws.String("s3cret")}},
		{{Name: aws.String("/appcollab/prod/llm-api-key"), Value: aws.String("key")}},
	}}

	params, err := fetchParameters(context.Background(), fetcher, "/appcollab/prod")
	if err != nil {
		t.Fatalf("Failed to fetch parameters: %v", err)
	}

	if params["SUPABASE_JWT_SECRET"] != "s3cret" {
		t.Errorf("Expected SUPABASE_JWT_SECRET, got %v", params)
	}
	if params["LLM_API_KEY"] != "key" {
		t.Errorf("Expected LLM_API_KEY, got %v", params)
	}
	if fetcher.calls != 2 {
		t.Errorf("Expected 2 page fetches, got %d", fetcher.calls)
	}
}

func TestMergeSSMWithoutPathIsNoop(t *testing.T) {
	c := map[string]string{"PORT": "8080"}
	got, err := MergeSSM(context.Background(), c)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(got) != 1 || got["PORT"] != "8080" {
		t.Errorf("Expected untouched config, got %v", got)
	}
}
