package seed

import (
	"fmt"
	"log"

	"bazaar/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers        int
	NumPublications int
	NumOffers       int
	ShouldClean     bool
}

// Seed populates the database with a coherent marketplace dataset: users,
// a community feed with comments and likes, offers, negotiation threads,
// and a handful of issued contracts. Engagement counters are backfilled
// from the actual rows at the end so seeded data starts consistent.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 50
	}
	if opts.NumPublications <= 0 {
		opts.NumPublications = 200
	}
	if opts.NumOffers <= 0 {
		opts.NumOffers = 60
	}

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("clean database: %w", err)
		}
	}

	f := NewFactory(db)

	log.Printf("Creating %d users...", opts.NumUsers)
	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}
	// First seeded user doubles as the moderation account.
	if err := db.Model(users[0]).Update("is_admin", true).Error; err != nil {
		return fmt.Errorf("promote seed admin: %w", err)
	}

	log.Printf("Creating %d publications...", opts.NumPublications)
	pubs := make([]*models.Publication, 0, opts.NumPublications)
	for i := 0; i < opts.NumPublications; i++ {
		author := users[f.rnd.Intn(len(users))]
		pub, err := f.CreatePublication(author)
		if err != nil {
			return err
		}
		pubs = append(pubs, pub)
	}

	log.Println("Creating comments and replies...")
	for _, pub := range pubs {
		nComments := f.rnd.Intn(6)
		for i := 0; i < nComments; i++ {
			commenter := users[f.rnd.Intn(len(users))]
			comment, err := f.CreateComment(commenter, pub, nil)
			if err != nil {
				return err
			}
			// Some comments attract a short reply chain.
			parent := comment
			for depth := 0; depth < f.rnd.Intn(3); depth++ {
				replier := users[f.rnd.Intn(len(users))]
				reply, err := f.CreateComment(replier, pub, parent)
				if err != nil {
					return err
				}
				parent = reply
			}
		}
	}

	log.Println("Creating likes...")
	for _, pub := range pubs {
		nLikes := f.rnd.Intn(len(users)/2 + 1)
		for i := 0; i < nLikes; i++ {
			liker := users[f.rnd.Intn(len(users))]
			if err := f.CreateLike(liker, pub.ID, models.TargetPublication); err != nil {
				return err
			}
		}
	}
	var comments []models.Comment
	if err := db.Find(&comments).Error; err != nil {
		return err
	}
	for _, comment := range comments {
		if f.rnd.Intn(3) > 0 {
			continue
		}
		liker := users[f.rnd.Intn(len(users))]
		if err := f.CreateLike(liker, comment.ID, models.TargetComment); err != nil {
			return err
		}
	}

	log.Printf("Creating %d offers...", opts.NumOffers)
	offers := make([]*models.Offer, 0, opts.NumOffers)
	for i := 0; i < opts.NumOffers; i++ {
		provider := users[f.rnd.Intn(len(users))]
		offer, err := f.CreateOffer(provider)
		if err != nil {
			return err
		}
		offers = append(offers, offer)
	}

	log.Println("Creating negotiations and contracts...")
	for _, offer := range offers {
		if f.rnd.Intn(2) == 0 {
			continue
		}
		client := users[f.rnd.Intn(len(users))]
		if client.ID == offer.UserID {
			continue
		}
		neg, err := f.CreateNegotiation(client, offer)
		if err != nil {
			return err
		}
		// A third of threads end in an accepted contract.
		if f.rnd.Intn(3) == 0 {
			if _, err := f.AcceptNegotiation(neg, offer); err != nil {
				return err
			}
		}
	}

	if err := backfillCounters(db); err != nil {
		return fmt.Errorf("backfill counters: %w", err)
	}

	log.Println("Seeding complete")
	return nil
}

// backfillCounters recomputes the denormalized engagement counters from the
// seeded rows, so the dataset satisfies the same consistency the runtime
// counter dispatcher maintains.
func backfillCounters(db *gorm.DB) error {
	if err := db.Exec(`UPDATE publications SET like_count = (
		SELECT COUNT(*) FROM likes WHERE likes.target_id = publications.id AND likes.target_type = ?)`,
		models.TargetPublication).Error; err != nil {
		return err
	}
	if err := db.Exec(`UPDATE publications SET comment_count = (
		SELECT COUNT(*) FROM comments WHERE comments.publication_id = publications.id)`).Error; err != nil {
		return err
	}
	return db.Exec(`UPDATE comments SET like_count = (
		SELECT COUNT(*) FROM likes WHERE likes.target_id = comments.id AND likes.target_type = ?)`,
		models.TargetComment).Error
}

func clearData(db *gorm.DB) error {
	// Children first so foreign keys never dangle mid-clean.
	tables := []string{
		"contracts", "negotiation_messages", "negotiations", "offers",
		"likes", "comments", "publications", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
