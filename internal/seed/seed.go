// Package seed populates the storage layer with demo data for local
// development. It writes through the repository interfaces so it works with
// every storage driver.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"gridcode/internal/models"
	"gridcode/internal/repository"
	"gridcode/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// DemoEmail and DemoPassword identify the well-known demo account.
const (
	DemoEmail    = "test@example.com"
	DemoPassword = "GridCodeDemo1!"
)

const (
	fakeUserCount   = 9
	invitesPerBatch = 5
)

var seedHashtags = []string{"#gridcode", "#job", "#event", "#golang", "#question", "#news"}

// Repos bundles the repositories the seeder writes through.
type Repos struct {
	Users       repository.UserRepository
	Posts       repository.PostRepository
	Engagements repository.EngagementRepository
	Comments    repository.CommentRepository
	Invites     repository.InviteRepository
}

// Seed fills the store with a demo account, fake members, tagged posts of
// every type, comments and engagement. Idempotency is not a goal; run it
// against a fresh store.
func Seed(ctx context.Context, r Repos) error {
	faker := gofakeit.New(42)

	users, err := createUsers(ctx, r, faker)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ Created %d users", len(users))

	invites, err := createInvites(ctx, r, users[0].ID)
	if err != nil {
		return fmt.Errorf("failed to create invites: %w", err)
	}
	log.Printf("✓ Created %d invite codes", invites)

	posts, err := createPosts(ctx, r, faker, users)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ Created %d posts", len(posts))

	comments, err := createComments(ctx, r, faker, users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("✓ Created %d comments", comments)

	reactions, err := addReactions(ctx, r, faker, users, posts)
	if err != nil {
		return fmt.Errorf("failed to add reactions: %w", err)
	}
	log.Printf("✓ Added %d reactions", reactions)

	return nil
}

func createUsers(ctx context.Context, r Repos, faker *gofakeit.Faker) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	demo := &models.User{
		Username: "demo",
		Email:    DemoEmail,
		Password: string(hashed),
		FullName: "Demo Account",
	}
	if err := r.Users.Create(ctx, demo); err != nil {
		return nil, err
	}

	users := []*models.User{demo}
	for i := 0; i < fakeUserCount; i++ {
		username := fmt.Sprintf("%s%d", strings.ToLower(faker.Username()), i)
		user := &models.User{
			Username:        username,
			Email:           fmt.Sprintf("%s@example.com", username),
			Password:        string(hashed),
			FullName:        faker.Name(),
			InvitedByUserID: &demo.ID,
		}
		if err := r.Users.Create(ctx, user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createInvites(ctx context.Context, r Repos, ownerID uint) (int, error) {
	for i := 0; i < invitesPerBatch; i++ {
		invite := &models.Invite{
			Code:            fmt.Sprintf("GRID-DEMO%04d", i+1),
			InvitedByUserID: ownerID,
		}
		if err := r.Invites.Create(ctx, invite); err != nil {
			return i, err
		}
	}
	return invitesPerBatch, nil
}

func createPosts(ctx context.Context, r Repos, faker *gofakeit.Faker, users []*models.User) ([]*models.Post, error) {
	var posts []*models.Post
	for i, user := range users {
		numPosts := faker.Number(2, 4)
		for j := 0; j < numPosts; j++ {
			post := &models.Post{
				Content: faker.Paragraph(1, 3, 12, " "),
				Hashtag: seedHashtags[(i+j)%len(seedHashtags)],
				UserID:  &user.ID,
				Type:    models.PostTypeGeneral,
			}

			// Sprinkle in the typed variants so every feed filter has data.
			switch (i + j) % 7 {
			case 3:
				post.Type = models.PostTypeJob
				post.Hashtag = "#job"
				post.StructuredData = jobPayload(faker)
			case 5:
				post.Type = models.PostTypeEvent
				post.Hashtag = "#event"
				post.StructuredData = eventPayload(faker)
			}
			if (i+j)%11 == 10 {
				post.IsAnonymous = true
			}

			if err := r.Posts.Create(ctx, post); err != nil {
				return nil, err
			}
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func jobPayload(faker *gofakeit.Faker) json.RawMessage {
	raw, _ := json.Marshal(validation.JobDetails{
		JobTitle:    faker.JobTitle(),
		Company:     faker.Company(),
		Location:    faker.City(),
		JobType:     "full-time",
		Experience:  "mid",
		Description: faker.Paragraph(1, 2, 15, " "),
	})
	return raw
}

func eventPayload(faker *gofakeit.Faker) json.RawMessage {
	raw, _ := json.Marshal(validation.EventDetails{
		EventName:   faker.Company() + " Meetup",
		EventType:   "meetup",
		Date:        faker.FutureDate().Format("2006-01-02"),
		Time:        "18:30",
		Location:    faker.City(),
		Description: faker.Paragraph(1, 2, 15, " "),
	})
	return raw
}

func createComments(ctx context.Context, r Repos, faker *gofakeit.Faker, users []*models.User, posts []*models.Post) (int, error) {
	count := 0
	for _, post := range posts {
		numComments := faker.Number(0, 3)
		for i := 0; i < numComments; i++ {
			author := users[faker.Number(0, len(users)-1)]
			comment := &models.Comment{
				PostID:  post.ID,
				UserID:  author.ID,
				Content: faker.Sentence(faker.Number(5, 15)),
			}
			if err := r.Comments.Create(ctx, comment); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

func addReactions(ctx context.Context, r Repos, faker *gofakeit.Faker, users []*models.User, posts []*models.Post) (int, error) {
	count := 0
	for _, post := range posts {
		for _, user := range users {
			// Skip self-reactions and most user/post pairs.
			if post.UserID != nil && *post.UserID == user.ID {
				continue
			}
			if faker.Number(0, 2) != 0 {
				continue
			}

			kind := models.ReactionKinds[faker.Number(0, len(models.ReactionKinds)-1)]
			if err := r.Engagements.SetReaction(ctx, user.ID, post.ID, kind); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}
