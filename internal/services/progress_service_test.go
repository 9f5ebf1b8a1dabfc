package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyhold/leaseback-service/internal/dtos"
	"github.com/keyhold/leaseback-service/internal/models"
	"github.com/keyhold/leaseback-service/internal/utils"
)

func init() {
	utils.InitLogger("leaseback-service-test")
}

/* ------------------------------------------------------------------
   In-memory repository fakes
------------------------------------------------------------------- */

type fakeSellerRepo struct {
	profiles []*models.SellerProfile
}

func (f *fakeSellerRepo) Create(ctx context.Context, p *models.SellerProfile) error {
	f.profiles = append(f.profiles, p)
	return nil
}

func (f *fakeSellerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SellerProfile, error) {
	for _, p := range f.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeSellerRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.SellerProfile, error) {
	var out []*models.SellerProfile
	for _, p := range f.profiles {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeSellerRepo) GetByEmail(ctx context.Context, email string) (*models.SellerProfile, error) {
	want := utils.EqualityHash(email)
	for _, p := range f.profiles {
		if utils.EqualityHash(p.Email) == want {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeSellerRepo) Update(ctx context.Context, p *models.SellerProfile) error { return nil }
func (f *fakeSellerRepo) Delete(ctx context.Context, id uuid.UUID) error            { return nil }

type fakePropertyRepo struct {
	property  *models.Property
	ownership []*models.PropertyOwnership
}

func (f *fakePropertyRepo) Create(ctx context.Context, p *models.Property) error {
	f.property = p
	return nil
}

func (f *fakePropertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	if f.property != nil && f.property.ID == id {
		return f.property, nil
	}
	return nil, nil
}

func (f *fakePropertyRepo) GetBySellerProfileIDs(ctx context.Context, sellerIDs []uuid.UUID) (*models.Property, error) {
	return f.property, nil
}

func (f *fakePropertyRepo) Update(ctx context.Context, p *models.Property) error {
	f.property = p
	return nil
}

func (f *fakePropertyRepo) UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	f.property = p
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (f *fakePropertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	if f.property == nil {
		return utils.ErrNotFound
	}
	return mutate(f.property)
}

func (f *fakePropertyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.property = nil
	return nil
}

func (f *fakePropertyRepo) UpsertOwnership(ctx context.Context, o *models.PropertyOwnership) error {
	for i, existing := range f.ownership {
		if existing.SellerProfileID == o.SellerProfileID && existing.PropertyID == o.PropertyID {
			f.ownership[i] = o
			return nil
		}
	}
	f.ownership = append(f.ownership, o)
	return nil
}

func (f *fakePropertyRepo) ListOwnership(ctx context.Context, propertyID uuid.UUID) ([]*models.PropertyOwnership, error) {
	return f.ownership, nil
}

func (f *fakePropertyRepo) ListAll(ctx context.Context) ([]*models.Property, error) {
	if f.property == nil {
		return nil, nil
	}
	return []*models.Property{f.property}, nil
}

type fakeReviewRepo struct {
	latest *models.ApplicationReview
}

func (f *fakeReviewRepo) Create(ctx context.Context, rev *models.ApplicationReview) error {
	f.latest = rev
	return nil
}

func (f *fakeReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ApplicationReview, error) {
	if f.latest != nil && f.latest.ID == id {
		return f.latest, nil
	}
	return nil, nil
}

func (f *fakeReviewRepo) LatestByPropertyID(ctx context.Context, propertyID uuid.UUID) (*models.ApplicationReview, error) {
	return f.latest, nil
}

func (f *fakeReviewRepo) ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.ApplicationReview, error) {
	if f.latest == nil {
		return nil, nil
	}
	return []*models.ApplicationReview{f.latest}, nil
}

func (f *fakeReviewRepo) Update(ctx context.Context, rev *models.ApplicationReview) error {
	f.latest = rev
	return nil
}

func (f *fakeReviewRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ReviewStatus) error {
	if f.latest == nil || f.latest.ID != id {
		return utils.ErrNoRowsUpdated
	}
	f.latest.Status = status
	return nil
}

type fakeOfferRepo struct {
	latest *models.Offer
}

func (f *fakeOfferRepo) Create(ctx context.Context, o *models.Offer) error {
	f.latest = o
	return nil
}

func (f *fakeOfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	if f.latest != nil && f.latest.ID == id {
		return f.latest, nil
	}
	return nil, nil
}

func (f *fakeOfferRepo) LatestByPropertyID(ctx context.Context, propertyID uuid.UUID) (*models.Offer, error) {
	return f.latest, nil
}

func (f *fakeOfferRepo) ListByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.Offer, error) {
	if f.latest == nil {
		return nil, nil
	}
	return []*models.Offer{f.latest}, nil
}

func (f *fakeOfferRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OfferStatus) error {
	if f.latest == nil || f.latest.ID != id {
		return utils.ErrNoRowsUpdated
	}
	f.latest.Status = status
	return nil
}

type fakeCompletionRepo struct {
	record *models.CompletionStatus
}

func (f *fakeCompletionRepo) Create(ctx context.Context, c *models.CompletionStatus) error {
	f.record = c
	return nil
}

func (f *fakeCompletionRepo) GetByPropertyID(ctx context.Context, propertyID uuid.UUID) (*models.CompletionStatus, error) {
	return f.record, nil
}

/* ------------------------------------------------------------------
   Fixtures
------------------------------------------------------------------- */

type progressFixture struct {
	sellers    *fakeSellerRepo
	props      *fakePropertyRepo
	reviews    *fakeReviewRepo
	offers     *fakeOfferRepo
	completion *fakeCompletionRepo
	svc        *ProgressService
	userID     uuid.UUID
}

func newProgressFixture(companyEmails ...string) *progressFixture {
	f := &progressFixture{
		sellers:    &fakeSellerRepo{},
		props:      &fakePropertyRepo{},
		reviews:    &fakeReviewRepo{},
		offers:     &fakeOfferRepo{},
		completion: &fakeCompletionRepo{},
		userID:     uuid.New(),
	}
	f.svc = NewProgressService(f.sellers, f.props, f.reviews, f.offers, f.completion, companyEmails)
	return f
}

func (f *progressFixture) addSeller(email string) *models.SellerProfile {
	sp := &models.SellerProfile{
		ID:        uuid.New(),
		UserID:    f.userID,
		FirstName: "Test",
		LastName:  "Seller",
		Email:     email,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.sellers.profiles = append(f.sellers.profiles, sp)
	return sp
}

func (f *progressFixture) addCompleteProperty() *models.Property {
	p := &models.Property{
		ID:           uuid.New(),
		PropertyType: "DETACHED_HOUSE",
		Tenure:       "FREEHOLD",
		Bedrooms:     3,
		Bathrooms:    2,
		Condition:    "GOOD",
		Address: &models.Address{
			Line1:    "1 Test Street",
			City:     "Bristol",
			Postcode: "BS1 1AA",
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.props.property = p
	return p
}

func (f *progressFixture) addReview(status models.ReviewStatus) *models.ApplicationReview {
	rev := &models.ApplicationReview{
		ID:         uuid.New(),
		PropertyID: f.props.property.ID,
		Checklist:  map[string]bool{"id_verified": true},
		Status:     status,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	f.reviews.latest = rev
	return rev
}

func (f *progressFixture) addOffer(status models.OfferStatus) *models.Offer {
	o := &models.Offer{
		ID:             uuid.New(),
		PropertyID:     f.props.property.ID,
		PurchasePrice:  250000,
		MonthlyRent:    1200,
		LeaseTermYears: 10,
		Status:         status,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	f.offers.latest = o
	return o
}

/* ------------------------------------------------------------------
   Step derivation
------------------------------------------------------------------- */

func TestResolveProgressNoSellers(t *testing.T) {
	f := newProgressFixture()

	resp, err := f.svc.ResolveProgress(context.Background(), f.userID)
	require.NoError(t, err)

	assert.False(t, resp.HasApplication)
	assert.Equal(t, models.StepSellerInformation, resp.Step)
	assert.Empty(t, resp.Sellers)
	assert.Nil(t, resp.PropertyDetails)
}

func TestResolveProgressSellersWithoutProperty(t *testing.T) {
	f := newProgressFixture()
	f.addSeller("owner@example.com")

	resp, err := f.svc.ResolveProgress(context.Background(), f.userID)
	require.NoError(t, err)

	assert.False(t, resp.HasApplication)
	assert.Equal(t, models.StepPropertyInformation, resp.Step)
	assert.Len(t, resp.Sellers, 1)
}

func TestResolveProgressIncompletePropertyWinsOverReview(t *testing.T) {
	f := newProgressFixture()
	f.addSeller("owner@example.com")
	p := f.addCompleteProperty()
	p.Address = nil
	f.addReview(models.ReviewStatusAccepted)

	resp, err := f.svc.ResolveProgress(context.Background(), f.userID)
	require.NoError(t, err)

	assert.True(t, resp.HasApplication)
	assert.Equal(t, models.StepPropertyInformation, resp.Step)
}

func TestResolveProgressMissingPropertyType(t *testing.T) {
	f := newProgressFixture()
	f.addSeller("owner@example.com")
	p := f.addCompleteProperty()
	p.PropertyType = ""

	resp, err := f.svc.ResolveProgress(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Equal(t, models.StepPropertyInformation, resp.Step)
}

func TestResolveProgressCompletePropertyNoReview(t *testing.T) {
	f := newProgressFixture()
	f.addSeller("owner@example.com")
	f.addCompleteProperty()

	resp, err := f.svc.ResolveProgress(context.Background(), f.userID)
	require.NoError(t, err)

	assert.True(t, resp.HasApplication)
	assert.Equal(t, models.StepReviewAndRecommendations, resp.Step)
}

func TestResolveProgressPendingReview(t *testing.T) {
	f := newProgressFixture()
	f.addSeller("owner@example.com")
	f.addCompleteProperty()
	f.addReview(models.ReviewStatusPending)

	resp, err := f.svc.ResolveProgress(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Equal(t, models.StepContemplation, resp.Step)
}

func TestResolveProgressRejectedReview(t *testing.T) {
	f := newProgressFixture()
	f.addSeller("owner@example.com")
	f.addCompleteProperty()
	f.addReview(models.ReviewStatusRejected)

	resp, err := f.svc.ResolveProgress(context.Background(), f.userID)
	require.NoError(t, err)

	// A rejected review parks the user, it does not restart the wizard.
	assert.Equal(t, models.StepContemplation, resp.Step)
}

func TestResolveProgressAcceptedReviewNoOffer(t *testing.T) {
	f := newProgressFixture()
	f.addSeller("owner@example.com")
	f.addCompleteProperty()
	f.addReview(models.ReviewStatusAccepted)

	resp, err := f.svc.ResolveProgress(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Equal(t, models.StepOfferAndNextSteps, resp.Step)
}

func TestResolveProgressAnyOfferRoutesToCompletion(t *testing.T) {
	for _, status := range []models.OfferStatus{
		models.OfferStatusDraft,
		models.OfferStatusAccepted,
		models.OfferStatusRejected,
		models.OfferStatusWithdrawn,
	} {
		t.Run(string(status), func(t *testing.T) {
			f := newProgressFixture()
			f.addSeller("owner@example.com")
			f.addCompleteProperty()
			f.addReview(models.ReviewStatusAccepted)
			f.addOffer(status)

			resp, err := f.svc.ResolveProgress(context.Background(), f.userID)
			require.NoError(t, err)

			assert.Equal(t, models.StepCompletionStatus, resp.Step)
		})
	}
}

func TestResolveProgressUnknownReviewStatus(t *testing.T) {
	f := newProgressFixture()
	f.addSeller("owner@example.com")
	f.addCompleteProperty()
	f.addReview(models.ReviewStatus("SOMETHING_NEW"))

	resp, err := f.svc.ResolveProgress(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Equal(t, models.StepContemplation, resp.Step)
}

func TestResolveProgressIsIdempotent(t *testing.T) {
	f := newProgressFixture()
	f.addSeller("owner@example.com")
	f.addCompleteProperty()
	f.addReview(models.ReviewStatusAccepted)

	first, err := f.svc.ResolveProgress(context.Background(), f.userID)
	require.NoError(t, err)
	second, err := f.svc.ResolveProgress(context.Background(), f.userID)
	require.NoError(t, err)

	assert.Equal(t, first.Step, second.Step)
	assert.Equal(t, first.HasApplication, second.HasApplication)
}

/* ------------------------------------------------------------------
   Aggregate assembly
------------------------------------------------------------------- */

func TestResolveProgressDefaultsOwnershipToEqualSplit(t *testing.T) {
	f := newProgressFixture()
	f.addSeller("one@example.com")
	f.addSeller("two@example.com")
	f.addCompleteProperty()

	resp, err := f.svc.ResolveProgress(context.Background(), f.userID)
	require.NoError(t, err)
	require.NotNil(t, resp.PropertyDetails)

	require.Len(t, resp.PropertyDetails.Ownership, 2)
	for _, o := range resp.PropertyDetails.Ownership {
		assert.InDelta(t, 50.0, o.Percentage, 0.0001)
	}
}

func TestResolveProgressKeepsExplicitOwnership(t *testing.T) {
	f := newProgressFixture()
	a := f.addSeller("one@example.com")
	b := f.addSeller("two@example.com")
	p := f.addCompleteProperty()
	f.props.ownership = []*models.PropertyOwnership{
		{PropertyID: p.ID, SellerProfileID: a.ID, Percentage: 70},
		{PropertyID: p.ID, SellerProfileID: b.ID, Percentage: 30},
	}

	resp, err := f.svc.ResolveProgress(context.Background(), f.userID)
	require.NoError(t, err)

	require.Len(t, resp.PropertyDetails.Ownership, 2)
	assert.InDelta(t, 70.0, resp.PropertyDetails.Ownership[0].Percentage, 0.0001)
}

func TestResolveProgressLoadsCompletionOnlyWithOffer(t *testing.T) {
	f := newProgressFixture()
	f.addSeller("owner@example.com")
	p := f.addCompleteProperty()
	f.addReview(models.ReviewStatusAccepted)
	f.completion.record = &models.CompletionStatus{
		ID:         uuid.New(),
		PropertyID: p.ID,
		Path:       models.ConveyancingOwnSolicitor,
	}

	resp, err := f.svc.ResolveProgress(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Nil(t, resp.PropertyDetails.Completion)

	f.addOffer(models.OfferStatusAccepted)
	resp, err = f.svc.ResolveProgress(context.Background(), f.userID)
	require.NoError(t, err)
	require.NotNil(t, resp.PropertyDetails.Completion)
	assert.Equal(t, models.ConveyancingOwnSolicitor, resp.PropertyDetails.Completion.Path)
}

/* ------------------------------------------------------------------
   Duplicate-application guard
------------------------------------------------------------------- */

func TestRequireNoApplicationAllowsFreshUser(t *testing.T) {
	f := newProgressFixture()

	err := f.svc.RequireNoApplication(context.Background(), f.userID)
	assert.NoError(t, err)
}

func TestRequireNoApplicationAllowsSellersWithoutProperty(t *testing.T) {
	f := newProgressFixture()
	f.addSeller("owner@example.com")

	err := f.svc.RequireNoApplication(context.Background(), f.userID)
	assert.NoError(t, err)
}

func TestRequireNoApplicationConflict(t *testing.T) {
	f := newProgressFixture()
	f.addSeller("owner@example.com")
	p := f.addCompleteProperty()
	f.addReview(models.ReviewStatusPending)

	err := f.svc.RequireNoApplication(context.Background(), f.userID)
	require.Error(t, err)

	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 409, appErr.StatusCode)
	assert.Equal(t, utils.ErrCodeConflict, appErr.Code)
	assert.True(t, errors.Is(err, utils.ErrApplicationExists))

	details, ok := appErr.Details.(dtos.ConflictDetails)
	require.True(t, ok)
	assert.Equal(t, p.ID.String(), details.PropertyID)
	assert.Equal(t, string(models.ReviewStatusPending), details.ReviewStatus)

	// The step rides on the wire in its string form; clients decode it back.
	step, parseErr := models.ParseStep(details.CurrentStep)
	require.NoError(t, parseErr)
	assert.Equal(t, models.StepContemplation, step)

	_, parseErr = models.ParseStep("SOMETHING_ELSE")
	require.Error(t, parseErr)
}

func TestRequireNoApplicationCompanyUserBypass(t *testing.T) {
	f := newProgressFixture("Demo@Keyhold.co.uk")
	f.addSeller("demo@keyhold.co.uk")
	f.addCompleteProperty()
	f.addReview(models.ReviewStatusAccepted)

	err := f.svc.RequireNoApplication(context.Background(), f.userID)
	assert.NoError(t, err)
}
