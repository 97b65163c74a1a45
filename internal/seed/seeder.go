package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/logger"
	"github.com/zaeeeeeem/nodejs-learning-backend/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

const seedEmailDomain = "@example.com"

// Counts sizes a seeding run.
type Counts struct {
	Users         int
	Videos        int
	Comments      int
	Tweets        int
	Playlists     int
	Likes         int
	Subscriptions int
}

// DevCounts is the size of `seed dev`.
func DevCounts() Counts {
	return Counts{
		Users:         20,
		Videos:        80,
		Comments:      300,
		Tweets:        60,
		Playlists:     25,
		Likes:         400,
		Subscriptions: 60,
	}
}

// Result lists what a run created.
type Result struct {
	Users     []models.User
	Videos    []models.Video
	Comments  []models.Comment
	Tweets    []models.Tweet
	Playlists []models.Playlist
	Likes     int
	Subs      int
}

// Seeder handles database seeding operations
type Seeder struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewSeeder creates a new seeder instance. A zero seed picks one from the clock.
func NewSeeder(db *gorm.DB, seed int64) *Seeder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	_ = gofakeit.Seed(seed)
	return &Seeder{db: db, rnd: rand.New(rand.NewSource(seed))}
}

// SeedDev seeds the development database with realistic data
func (s *Seeder) SeedDev(ctx context.Context) (*Result, error) {
	return s.Seed(ctx, DevCounts())
}

// Seed creates counts worth of linked content.
func (s *Seeder) Seed(ctx context.Context, counts Counts) (*Result, error) {
	db := s.db.WithContext(ctx)
	res := &Result{}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	logger.Log.Info("Creating users...")
	if res.Users, err = s.seedUsers(db, counts.Users, string(hash)); err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	if len(res.Users) == 0 {
		return res, nil
	}

	logger.Log.Info("Creating videos...")
	if res.Videos, err = s.seedVideos(db, res.Users, counts.Videos); err != nil {
		return nil, fmt.Errorf("failed to seed videos: %w", err)
	}

	logger.Log.Info("Creating comments...")
	if res.Comments, err = s.seedComments(db, res.Users, res.Videos, counts.Comments); err != nil {
		return nil, fmt.Errorf("failed to seed comments: %w", err)
	}

	logger.Log.Info("Creating tweets...")
	if res.Tweets, err = s.seedTweets(db, res.Users, counts.Tweets); err != nil {
		return nil, fmt.Errorf("failed to seed tweets: %w", err)
	}

	logger.Log.Info("Creating playlists...")
	if res.Playlists, err = s.seedPlaylists(db, res.Users, res.Videos, counts.Playlists); err != nil {
		return nil, fmt.Errorf("failed to seed playlists: %w", err)
	}

	logger.Log.Info("Creating likes...")
	if res.Likes, err = s.seedLikes(db, res, counts.Likes); err != nil {
		return nil, fmt.Errorf("failed to seed likes: %w", err)
	}

	logger.Log.Info("Creating subscriptions...")
	if res.Subs, err = s.seedSubscriptions(db, res.Users, counts.Subscriptions); err != nil {
		return nil, fmt.Errorf("failed to seed subscriptions: %w", err)
	}

	logger.Log.Info("Seeding finished",
		zap.Int("users", len(res.Users)),
		zap.Int("videos", len(res.Videos)),
		zap.Int("comments", len(res.Comments)),
		zap.Int("tweets", len(res.Tweets)),
		zap.Int("playlists", len(res.Playlists)),
		zap.Int("likes", res.Likes),
		zap.Int("subscriptions", res.Subs),
	)
	return res, nil
}

func (s *Seeder) seedUsers(db *gorm.DB, count int, passwordHash string) ([]models.User, error) {
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		username := strings.ToLower(gofakeit.Username())
		for {
			var n int64
			if err := db.Model(&models.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
				return nil, err
			}
			if n == 0 {
				break
			}
			username = strings.ToLower(gofakeit.Username())
		}

		user := models.User{
			Username:     username,
			Email:        username + seedEmailDomain,
			FullName:     gofakeit.Name(),
			Avatar:       fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/png?seed=%s", username),
			PasswordHash: passwordHash,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) pastTime() time.Time {
	return gofakeit.DateRange(time.Now().AddDate(0, 0, -30), time.Now())
}

func (s *Seeder) title() string {
	words := make([]string, s.rnd.Intn(5)+2)
	for i := range words {
		words[i] = gofakeit.Word()
	}
	t := strings.Join(words, " ")
	if len(t) > models.VideoTitleMax {
		t = t[:models.VideoTitleMax]
	}
	return t
}

func (s *Seeder) seedVideos(db *gorm.DB, users []models.User, count int) ([]models.Video, error) {
	videos := make([]models.Video, 0, count)
	for i := 0; i < count; i++ {
		owner := users[s.rnd.Intn(len(users))]
		created := s.pastTime()
		key := gofakeit.UUID()

		description := gofakeit.HipsterSentence() + " " + gofakeit.HipsterSentence()
		if len(description) > models.VideoDescriptionMax {
			description = description[:models.VideoDescriptionMax]
		}

		video := models.Video{
			OwnerID:     owner.ID,
			Title:       s.title(),
			Description: description,
			VideoFile:   "https://cdn.example.com/videos/" + key + ".mp4",
			Thumbnail:   "https://cdn.example.com/thumbnails/" + key + ".jpg",
			Duration:    float64(s.rnd.Intn(1200) + 15),
			Views:       int64(s.rnd.Intn(5000)),
			IsPublished: s.rnd.Float32() < 0.85,
			CreatedAt:   created,
			UpdatedAt:   created,
		}
		if err := db.Create(&video).Error; err != nil {
			return nil, fmt.Errorf("failed to create video: %w", err)
		}
		videos = append(videos, video)
	}
	return videos, nil
}

func (s *Seeder) seedComments(db *gorm.DB, users []models.User, videos []models.Video, count int) ([]models.Comment, error) {
	if len(videos) == 0 {
		return nil, nil
	}
	templates := []string{
		"Great video!",
		"Thanks for sharing this",
		"Watched it twice already",
		"Can you do a follow-up?",
		"Subscribed",
	}

	comments := make([]models.Comment, 0, count)
	for i := 0; i < count; i++ {
		content := gofakeit.HipsterSentence()
		if s.rnd.Float32() < 0.3 {
			content = templates[s.rnd.Intn(len(templates))]
		}
		created := s.pastTime()
		comment := models.Comment{
			VideoID:   videos[s.rnd.Intn(len(videos))].ID,
			OwnerID:   users[s.rnd.Intn(len(users))].ID,
			Content:   content,
			CreatedAt: created,
			UpdatedAt: created,
		}
		if err := db.Create(&comment).Error; err != nil {
			return nil, fmt.Errorf("failed to create comment: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, nil
}

func (s *Seeder) seedTweets(db *gorm.DB, users []models.User, count int) ([]models.Tweet, error) {
	tweets := make([]models.Tweet, 0, count)
	for i := 0; i < count; i++ {
		created := s.pastTime()
		tweet := models.Tweet{
			OwnerID:   users[s.rnd.Intn(len(users))].ID,
			Content:   gofakeit.HipsterSentence(),
			CreatedAt: created,
			UpdatedAt: created,
		}
		if err := db.Create(&tweet).Error; err != nil {
			return nil, fmt.Errorf("failed to create tweet: %w", err)
		}
		tweets = append(tweets, tweet)
	}
	return tweets, nil
}

func (s *Seeder) seedPlaylists(db *gorm.DB, users []models.User, videos []models.Video, count int) ([]models.Playlist, error) {
	playlists := make([]models.Playlist, 0, count)
	for i := 0; i < count; i++ {
		playlist := models.Playlist{
			OwnerID:     users[s.rnd.Intn(len(users))].ID,
			Name:        gofakeit.BuzzWord() + " " + gofakeit.Noun(),
			Description: gofakeit.HipsterSentence(),
		}
		if err := db.Create(&playlist).Error; err != nil {
			return nil, fmt.Errorf("failed to create playlist: %w", err)
		}

		if len(videos) > 0 {
			size := s.rnd.Intn(6)
			for pos, idx := range s.rnd.Perm(len(videos))[:min(size, len(videos))] {
				entry := models.PlaylistVideo{PlaylistID: playlist.ID, VideoID: videos[idx].ID, Position: pos}
				if err := db.Create(&entry).Error; err != nil {
					return nil, fmt.Errorf("failed to add playlist video: %w", err)
				}
			}
		}
		playlists = append(playlists, playlist)
	}
	return playlists, nil
}

// seedLikes spreads likes over videos, comments and tweets. Duplicate picks
// are skipped by the unique indexes.
func (s *Seeder) seedLikes(db *gorm.DB, res *Result, count int) (int, error) {
	created := 0
	for i := 0; i < count; i++ {
		actor := res.Users[s.rnd.Intn(len(res.Users))].ID

		var like *models.Like
		switch pick := s.rnd.Intn(10); {
		case pick < 6 && len(res.Videos) > 0:
			like = models.NewLike(actor, models.LikeTargetVideo, res.Videos[s.rnd.Intn(len(res.Videos))].ID)
		case pick < 8 && len(res.Comments) > 0:
			like = models.NewLike(actor, models.LikeTargetComment, res.Comments[s.rnd.Intn(len(res.Comments))].ID)
		case len(res.Tweets) > 0:
			like = models.NewLike(actor, models.LikeTargetTweet, res.Tweets[s.rnd.Intn(len(res.Tweets))].ID)
		default:
			continue
		}

		result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
		if result.Error != nil {
			return created, fmt.Errorf("failed to create like: %w", result.Error)
		}
		created += int(result.RowsAffected)
	}
	return created, nil
}

func (s *Seeder) seedSubscriptions(db *gorm.DB, users []models.User, count int) (int, error) {
	if len(users) < 2 {
		return 0, nil
	}
	created := 0
	for i := 0; i < count; i++ {
		subscriber := users[s.rnd.Intn(len(users))]
		channel := users[s.rnd.Intn(len(users))]
		if subscriber.ID == channel.ID {
			continue
		}
		sub := models.Subscription{SubscriberID: subscriber.ID, ChannelID: channel.ID}
		result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&sub)
		if result.Error != nil {
			if errors.Is(result.Error, models.ErrSelfSubscription) {
				continue
			}
			return created, fmt.Errorf("failed to create subscription: %w", result.Error)
		}
		created += int(result.RowsAffected)
	}
	return created, nil
}

// Clean removes every seeded account and the content attached to the
// domain tables.
func (s *Seeder) Clean(ctx context.Context) error {
	// Delete in reverse order of dependencies
	tables := []string{"likes", "subscriptions", "playlist_videos", "playlists", "comments", "tweets", "videos"}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("failed to clean %s: %w", table, err)
			}
		}
		if err := tx.Exec("DELETE FROM users WHERE email LIKE ?", "%"+seedEmailDomain).Error; err != nil {
			return fmt.Errorf("failed to clean users: %w", err)
		}
		return nil
	})
}
