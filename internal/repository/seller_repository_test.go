package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"buymesho/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeller(uid string) *domain.Seller {
	return &domain.Seller{
		UID:          uid,
		Email:        uid + "@students.example",
		BusinessName: "Shop " + uid,
		BusinessLogo: "https://res.cloudinary.com/demo/image/upload/v1/buymesho/" + uid + ".png",
		University:   string(domain.UniversityMUST),
	}
}

// Feature: campus-marketplace, Property 5: Seller upsert is idempotent
func TestProperty_SellerUpsertIsIdempotent(t *testing.T) {
	db := requireDB(t)
	resetTables(t, db)
	repo := NewSellerRepository(db)
	ctx := context.Background()

	properties := gopter.NewProperties(nil)

	properties.Property("upserting twice leaves one row with the latest profile", prop.ForAll(
		func(uid, businessName, bio string) bool {
			first := newSeller(uid)
			if err := repo.Upsert(ctx, first); err != nil {
				t.Logf("first upsert: %v", err)
				return false
			}

			second := newSeller(uid)
			second.BusinessName = businessName
			second.Bio = &bio
			if err := repo.Upsert(ctx, second); err != nil {
				t.Logf("second upsert: %v", err)
				return false
			}

			var count int
			if err := db.QueryRow(`SELECT COUNT(*) FROM sellers WHERE uid = $1`, uid).Scan(&count); err != nil || count != 1 {
				return false
			}

			got, err := repo.FindByUID(ctx, uid)
			if err != nil {
				return false
			}
			return got.BusinessName == businessName && got.Bio != nil && *got.Bio == bio
		},
		gen.RegexMatch(`[a-zA-Z0-9]{8,28}`),
		gen.RegexMatch(`[A-Z][a-z]{2,20}`),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSellerRepository_UpsertKeepsVerificationAndJoinDate(t *testing.T) {
	db := requireDB(t)
	resetTables(t, db)
	repo := NewSellerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, newSeller("seller-1")))
	require.NoError(t, repo.MarkVerified(ctx, "seller-1"))

	before, err := repo.FindByUID(ctx, "seller-1")
	require.NoError(t, err)
	require.True(t, before.IsVerified)

	update := newSeller("seller-1")
	update.BusinessName = "Renamed"
	update.IsVerified = false
	update.JoinDate = time.Now().Add(240 * time.Hour)
	require.NoError(t, repo.Upsert(ctx, update))

	after, err := repo.FindByUID(ctx, "seller-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", after.BusinessName)
	assert.True(t, after.IsVerified)
	assert.True(t, before.JoinDate.Equal(after.JoinDate))
	assert.Nil(t, after.Bio)
}

func TestSellerRepository_Lifecycle(t *testing.T) {
	db := requireDB(t)
	resetTables(t, db)
	repo := NewSellerRepository(db)
	ctx := context.Background()

	exists, err := repo.Exists(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.FindByUID(ctx, "ghost")
	assert.ErrorIs(t, err, ErrSellerNotFound)
	assert.ErrorIs(t, repo.MarkVerified(ctx, "ghost"), ErrSellerNotFound)
	assert.NoError(t, repo.Delete(ctx, "ghost"))

	require.NoError(t, repo.Upsert(ctx, newSeller("seller-2")))
	exists, err = repo.Exists(ctx, "seller-2")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, "seller-2"))
	exists, err = repo.Exists(ctx, "seller-2")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSellerRepository_FindByUIDNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM sellers")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err = NewSellerRepository(db).FindByUID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSellerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepository_UpsertNeverWritesVerification(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := newSeller("seller-3")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sellers (uid, email, business_name, business_logo, university, bio)")).
		WithArgs(s.UID, s.Email, s.BusinessName, s.BusinessLogo, s.University, s.Bio).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewSellerRepository(db).Upsert(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}
