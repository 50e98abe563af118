package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/appcollab/appcollab-backend/database"
	"github.com/appcollab/appcollab-backend/errs"
	"github.com/appcollab/appcollab-backend/models"
)

func openTestDB(t *testing.T) database.Database {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return database.New(db)
}

type fakeIdentities struct {
	next      uuid.UUID
	createErr error
	created   []NewIdentity
	deleted   []uuid.UUID
}

func (f *fakeIdentities) CreateUser(ctx context.Context, identity NewIdentity) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	f.created = append(f.created, identity)
	return f.next, nil
}

func (f *fakeIdentities) DeleteUser(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func TestAdminCreateUser(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	identities := &fakeIdentities{next: uuid.New()}
	svc := NewAdminService(db, identities)

	profile, err := svc.CreateUser(ctx, CreateUserInput{
		Email:    "ada@appcollab.dev",
		Password: "correct-horse",
		Role:     models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if profile.ID != identities.next || profile.Role != models.RoleAdmin {
		t.Errorf("Unexpected profile: %+v", profile)
	}
	if profile.Username != "ada" {
		t.Errorf("Expected username derived from email, got %q", profile.Username)
	}
	if len(identities.deleted) != 0 {
		t.Errorf("Expected no rollback, got %v", identities.deleted)
	}
}

func TestAdminCreateUserRollsBackIdentity(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	taken := &models.Profile{ID: uuid.New(), Username: "taken"}
	if err := db.ProfileRepo().Add(ctx, taken); err != nil {
		t.Fatalf("Failed to seed profile: %v", err)
	}

	identities := &fakeIdentities{next: uuid.New()}
	svc := NewAdminService(db, identities)
	_, err := svc.CreateUser(ctx, CreateUserInput{
		Email:    "ghost@appcollab.dev",
		Password: "correct-horse",
		Username: "taken",
	})
	if err == nil {
		t.Fatal("Expected profile write to fail on duplicate username")
	}
	if len(identities.deleted) != 1 || identities.deleted[0] != identities.next {
		t.Errorf("Expected identity %s to be rolled back, got %v", identities.next, identities.deleted)
	}
}

func TestAdminCreateUserValidation(t *testing.T) {
	svc := NewAdminService(openTestDB(t), &fakeIdentities{next: uuid.New()})
	cases := []CreateUserInput{
		{Password: "correct-horse"},
		{Email: "not-an-email", Password: "correct-horse"},
		{Email: "ok@appcollab.dev", Password: "short"},
		{Email: "ok@appcollab.dev", Password: "correct-horse", Role: "root"},
	}
	for _, in := range cases {
		_, err := svc.CreateUser(context.Background(), in)
		if errs.StatusCode(err) != http.StatusBadRequest {
			t.Errorf("Expected 400 for %+v, got %v", in, err)
		}
	}
}

func TestSupabaseAdminClient(t *testing.T) {
	userID := uuid.New()
	var gotAuth, gotPath string
	var gotBody supabaseCreateUserRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.Method + " " + r.URL.Path
		switch r.Method {
		case http.MethodPost:
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Errorf("Failed to decode body: %v", err)
			}
			if gotBody.Email == "dupe@appcollab.dev" {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(`{"msg":"A user with this email address has already been registered"}`))
				return
			}
			json.NewEncoder(w).Encode(supabaseUser{ID: userID.String(), Email: gotBody.Email})
		case http.MethodDelete:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	client, err := NewSupabaseAdmin(map[string]string{
		"SUPABASE_URL":              server.URL + "/",
		"SUPABASE_SERVICE_ROLE_KEY": "service-key",
	})
	if err != nil {
		t.Fatalf("Failed to build client: %v", err)
	}

	id, err := client.CreateUser(context.Background(), NewIdentity{Email: "new@appcollab.dev", Password: "pw"})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if id != userID {
		t.Errorf("Expected %s, got %s", userID, id)
	}
	if gotAuth != "Bearer service-key" || gotPath != "POST /auth/v1/admin/users" || !gotBody.EmailConfirm {
		t.Errorf("Unexpected request: auth=%q path=%q body=%+v", gotAuth, gotPath, gotBody)
	}

	_, err = client.CreateUser(context.Background(), NewIdentity{Email: "dupe@appcollab.dev", Password: "pw"})
	if !errs.IsConflict(err) {
		t.Errorf("Expected conflict, got %v", err)
	}

	if err := client.DeleteUser(context.Background(), userID); err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}
	if gotPath != "DELETE /auth/v1/admin/users/"+userID.String() {
		t.Errorf("Unexpected delete path %q", gotPath)
	}
}

func TestNewSupabaseAdminRequiresConfig(t *testing.T) {
	if _, err := NewSupabaseAdmin(map[string]string{"SUPABASE_URL": "http://x"}); err == nil {
		t.Error("Expected missing service key to be reported")
	}
}

type fakeModel struct {
	calls    int
	err      error
	messages []llms.MessageContent
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	m.messages = messages
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		Content: "  Polished text.  ",
		GenerationInfo: map[string]any{
			"PromptTokens":     12,
			"CompletionTokens": 5,
			"TotalTokens":      17,
		},
	}}}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestEnhanceReturnsTextAndUsage(t *testing.T) {
	model := &fakeModel{}
	enhancer := NewLLMEnhancerWithModel(model, 256)

	result, err := enhancer.Enhance(context.Background(), EnhanceRequest{Text: "rough text", Kind: EnhanceBio})
	if err != nil {
		t.Fatalf("Failed to enhance: %v", err)
	}
	if result.Text != "Polished text." {
		t.Errorf("Expected trimmed text, got %q", result.Text)
	}
	if result.Usage != (TokenUsage{PromptTokens: 12, CompletionTokens: 5, TotalTokens: 17}) {
		t.Errorf("Unexpected usage: %+v", result.Usage)
	}
	if len(model.messages) != 2 || model.messages[0].Role != schema.ChatMessageTypeSystem {
		t.Errorf("Expected system and human messages, got %+v", model.messages)
	}
}

func TestEnhanceValidation(t *testing.T) {
	model := &fakeModel{}
	enhancer := NewLLMEnhancerWithModel(model, 256)

	if _, err := enhancer.Enhance(context.Background(), EnhanceRequest{Text: "   "}); !errs.IsMissingRequiredFieldError(err) {
		t.Errorf("Expected missing text error, got %v", err)
	}
	if _, err := enhancer.Enhance(context.Background(), EnhanceRequest{Text: "x", Kind: "poem"}); !errs.IsInvalidFieldError(err) {
		t.Errorf("Expected invalid kind error, got %v", err)
	}
	long := strings.Repeat("a", maxEnhanceInput+1)
	if _, err := enhancer.Enhance(context.Background(), EnhanceRequest{Text: long}); errs.StatusCode(err) != http.StatusBadRequest {
		t.Errorf("Expected 400 for oversized input, got %v", err)
	}
	if model.calls != 0 {
		t.Errorf("Expected no model calls for invalid input, got %d", model.calls)
	}
}

func TestEnhanceBreakerOpensAfterFailures(t *testing.T) {
	model := &fakeModel{err: errors.New("503 from provider")}
	enhancer := NewLLMEnhancerWithModel(model, 256)

	for i := 0; i < 4; i++ {
		_, err := enhancer.Enhance(context.Background(), EnhanceRequest{Text: "text"})
		if !errs.IsUpstreamError(err) {
			t.Fatalf("Call %d: expected upstream error, got %v", i, err)
		}
	}
	_, err := enhancer.Enhance(context.Background(), EnhanceRequest{Text: "text"})
	if !errs.IsCircuitBreakerOpenError(err) {
		t.Errorf("Expected open breaker, got %v", err)
	}
	if model.calls != 4 {
		t.Errorf("Expected the open breaker to skip the model, got %d calls", model.calls)
	}
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	b, _ := io.ReadAll(params.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestPutAvatar(t *testing.T) {
	putter := &fakePutter{}
	store := newS3AvatarStore(putter, "avatars-bucket", "https://cdn.example.com/storage/")
	userID := uuid.New()

	url, err := store.PutAvatar(context.Background(), userID, "image/png", strings.NewReader("png-bytes"), 9)
	if err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}
	key := aws.ToString(putter.input.Key)
	if !strings.HasPrefix(key, "avatars/"+userID.String()+"/") || !strings.HasSuffix(key, ".png") {
		t.Errorf("Unexpected key %q", key)
	}
	if url != "https://cdn.example.com/storage/"+key {
		t.Errorf("Unexpected url %q", url)
	}
	if aws.ToString(putter.input.Bucket) != "avatars-bucket" || putter.body != "png-bytes" {
		t.Errorf("Unexpected upload: bucket=%q body=%q", aws.ToString(putter.input.Bucket), putter.body)
	}

	if _, err := store.PutAvatar(context.Background(), userID, "application/pdf", strings.NewReader("x"), 1); !errs.IsInvalidFieldError(err) {
		t.Errorf("Expected invalid content type error, got %v", err)
	}
}
