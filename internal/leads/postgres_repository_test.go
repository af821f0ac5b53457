package leads

import (
	"context"
	"testing"
	"time"

	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

func validCreateRequest() *CreateLeadRequest {
	return &CreateLeadRequest{
		Name:         "Amina Otieno",
		Email:        "amina@coastalhealth.org",
		Organization: "Coastal Health Initiative",
		Phone:        "712345678",
		CountryCode:  "+254",
		InterestedIn: "Research & Insights",
		Message:      "We need a baseline study.",
		Timeframe:    "1 - 3 months",
		Consent:      true,
		Source:       "wizard",
	}
}

func leadRow(id string, createdAt time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "email", "organization", "role", "phone", "country_code",
		"interested_in", "other_service", "message", "budget", "timeframe",
		"file_path", "consent", "source", "created_at",
	}).AddRow(
		id, "Amina Otieno", "amina@coastalhealth.org", "Coastal Health Initiative",
		"", "712345678", "+254", "Research & Insights", "",
		"We need a baseline study.", "", "1 - 3 months", "", true, "wizard", createdAt,
	)
}

func TestPostgresRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	createdAt := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO leads").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	lead, err := repo.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if lead.ID == "" {
		t.Fatalf("id not assigned")
	}
	if !lead.CreatedAt.Equal(createdAt) {
		t.Fatalf("created_at not taken from the row: %v", lead.CreatedAt)
	}
	if lead.Source != "wizard" {
		t.Fatalf("source lost: %q", lead.Source)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryCreateRejectsInvalid(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	req := validCreateRequest()
	req.Consent = false

	if _, err := repo.Create(context.Background(), req); err != ErrConsentRequired {
		t.Fatalf("expected ErrConsentRequired before any query, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no queries should have run: %v", err)
	}
}

func TestPostgresRepositoryGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM leads WHERE id").
		WithArgs("lead-1").
		WillReturnRows(leadRow("lead-1", time.Now().UTC()))
	lead, err := repo.GetByID(context.Background(), "lead-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if lead.Name != "Amina Otieno" || lead.CountryCode != "+254" {
		t.Fatalf("lead scanned wrong: %+v", lead)
	}

	mock.ExpectQuery("SELECT (.+) FROM leads WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrLeadNotFound {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM leads ORDER BY created_at DESC").
		WithArgs(50, 0).
		WillReturnRows(leadRow("lead-1", now))
	listed, err := repo.List(context.Background(), ListFilter{Limit: 50})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != "lead-1" {
		t.Fatalf("unexpected listing: %+v", listed)
	}

	mock.ExpectQuery("SELECT (.+) FROM leads WHERE source").
		WithArgs("wizard", 10, 5).
		WillReturnRows(leadRow("lead-2", now))
	filtered, err := repo.List(context.Background(), ListFilter{Limit: 10, Offset: 5, Source: "wizard"})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != "lead-2" {
		t.Fatalf("unexpected filtered listing: %+v", filtered)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
