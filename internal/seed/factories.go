// Package seed provides helpers to create demo and test data for the
// marketplace database. These helpers are intended for development and
// testing only.
package seed

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"bazaar/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var offerCategories = []string{
	"design", "development", "writing", "marketing", "photography",
	"tutoring", "repair", "gardening", "cleaning", "legal",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{db: db, rnd: rand.New(rand.NewSource(seed))}
}

// pastTime returns a timestamp spread over the last maxDays days.
func (f *Factory) pastTime(maxDays int) time.Time {
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rnd.Intn(maxDays*24*60)) * time.Minute
	return time.Now().Add(-back)
}

// CreateUser persists a user with a hashed password. All seeded users share
// the password "SeededPassw0rd!" so they are usable in manual testing.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("SeededPassw0rd!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:  fmt.Sprintf("%s_%s", gofakeit.Username(), gofakeit.LetterN(4)),
		Email:     gofakeit.Email(),
		Password:  string(hashed),
		Bio:       gofakeit.Sentence(8),
		Avatar:    fmt.Sprintf("https://i.pravatar.cc/300?u=%s", gofakeit.UUID()),
		CreatedAt: f.pastTime(180),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// CreatePublication persists a feed publication for the given author.
// Roughly one in five publications is an upcoming event.
func (f *Factory) CreatePublication(user *models.User, overrides ...func(*models.Publication)) (*models.Publication, error) {
	pub := &models.Publication{
		UserID:    user.ID,
		Type:      models.PublicationTypePost,
		Title:     gofakeit.Sentence(5),
		Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
		Status:    models.PublicationStatusApproved,
		CreatedAt: f.pastTime(90),
	}
	if f.rnd.Intn(5) == 0 {
		eventDate := time.Now().Add(time.Duration(1+f.rnd.Intn(60)) * 24 * time.Hour)
		pub.Type = models.PublicationTypeEvent
		pub.EventDate = &eventDate
	}
	for _, override := range overrides {
		override(pub)
	}
	if err := f.db.Create(pub).Error; err != nil {
		return nil, fmt.Errorf("create publication: %w", err)
	}
	return pub, nil
}

// CreateComment persists a comment. Pass a parent to create a reply.
func (f *Factory) CreateComment(user *models.User, pub *models.Publication, parent *models.Comment) (*models.Comment, error) {
	comment := &models.Comment{
		UserID:        user.ID,
		PublicationID: pub.ID,
		Content:       gofakeit.Sentence(10),
		CreatedAt:     f.pastTime(30),
	}
	if parent != nil {
		comment.ParentCommentID = &parent.ID
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// CreateLike persists a like row. Duplicate pairs are skipped silently so
// random seeding does not have to track which pairs exist.
func (f *Factory) CreateLike(user *models.User, targetID uint, target models.TargetType) error {
	like := &models.Like{
		UserID:     user.ID,
		TargetID:   targetID,
		TargetType: target,
	}
	err := f.db.Create(like).Error
	if err != nil && errorIsDuplicate(err) {
		return nil
	}
	return err
}

// CreateOffer persists a marketplace offer for the given provider.
func (f *Factory) CreateOffer(user *models.User, overrides ...func(*models.Offer)) (*models.Offer, error) {
	offer := &models.Offer{
		UserID:      user.ID,
		Title:       gofakeit.JobTitle() + " services",
		Description: gofakeit.Paragraph(1, 2, 10, "\n"),
		Category:    offerCategories[f.rnd.Intn(len(offerCategories))],
		Price:       int64(500+f.rnd.Intn(50000)) * 10, // cents
		Status:      models.OfferStatusActive,
		CreatedAt:   f.pastTime(120),
	}
	for _, override := range overrides {
		override(offer)
	}
	if err := f.db.Create(offer).Error; err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}
	return offer, nil
}

// CreateNegotiation persists an open negotiation with an opening message.
func (f *Factory) CreateNegotiation(client *models.User, offer *models.Offer) (*models.Negotiation, error) {
	neg := &models.Negotiation{
		OfferID:    offer.ID,
		ClientID:   client.ID,
		ProviderID: offer.UserID,
		Status:     models.NegotiationStatusOpen,
		CreatedAt:  f.pastTime(30),
	}
	if err := f.db.Create(neg).Error; err != nil {
		return nil, fmt.Errorf("create negotiation: %w", err)
	}
	msg := &models.NegotiationMessage{
		NegotiationID: neg.ID,
		SenderID:      client.ID,
		Body:          gofakeit.Sentence(12),
	}
	if err := f.db.Create(msg).Error; err != nil {
		return nil, fmt.Errorf("create negotiation message: %w", err)
	}
	return neg, nil
}

// AcceptNegotiation marks the negotiation accepted and issues its contract,
// mirroring what the negotiation service does at runtime.
func (f *Factory) AcceptNegotiation(neg *models.Negotiation, offer *models.Offer) (*models.Contract, error) {
	if err := f.db.Model(neg).Update("status", models.NegotiationStatusAccepted).Error; err != nil {
		return nil, fmt.Errorf("accept negotiation: %w", err)
	}
	contract := &models.Contract{
		Reference:     gofakeit.UUID(),
		OfferID:       offer.ID,
		NegotiationID: neg.ID,
		ClientID:      neg.ClientID,
		ProviderID:    neg.ProviderID,
		Price:         offer.Price,
		Status:        models.ContractStatusPending,
	}
	if err := f.db.Create(contract).Error; err != nil {
		return nil, fmt.Errorf("create contract: %w", err)
	}
	return contract, nil
}

func errorIsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
