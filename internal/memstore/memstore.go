// Package memstore provides an in-memory implementation of every repository
// interface. It backs DB_DRIVER=memory, which runs the full API without
// Postgres for demos and service-level tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gridcode/internal/models"
	"gridcode/internal/repository"

	"github.com/samber/lo"
)

// Store holds all application state behind a single mutex. Operations copy
// values on the way in and out so callers never share memory with the store.
type Store struct {
	mu sync.RWMutex

	users        map[uint]models.User
	posts        map[uint]models.Post
	reactions    map[uint]models.Reaction
	endorsements map[uint]models.Endorsement
	comments     map[uint]models.Comment
	invites      map[uint]models.Invite
	profileViews map[uint]models.ProfileView

	nextUserID        uint
	nextPostID        uint
	nextReactionID    uint
	nextEndorsementID uint
	nextCommentID     uint
	nextInviteID      uint
	nextProfileViewID uint
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:        make(map[uint]models.User),
		posts:        make(map[uint]models.Post),
		reactions:    make(map[uint]models.Reaction),
		endorsements: make(map[uint]models.Endorsement),
		comments:     make(map[uint]models.Comment),
		invites:      make(map[uint]models.Invite),
		profileViews: make(map[uint]models.ProfileView),
	}
}

// --- users ---

func (s *Store) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			user := u
			return &user, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return models.NewConflictError("User already exists")
		}
	}
	s.nextUserID++
	user.ID = s.nextUserID
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *Store) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return models.NewNotFoundError("User", user.ID)
	}
	user.UpdatedAt = time.Now().UTC()
	s.users[user.ID] = *user
	return nil
}

// --- posts ---

func (s *Store) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPostID++
	post.ID = s.nextPostID
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	s.posts[post.ID] = *post
	return nil
}

func (s *Store) GetPostByID(_ context.Context, id uint) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.posts[id]
	if !ok {
		return nil, models.NewNotFoundError("Post", id)
	}
	s.attachAuthorLocked(&post)
	return &post, nil
}

func (s *Store) ListPosts(_ context.Context, filter repository.PostFilter) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var posts []*models.Post
	for _, p := range s.posts {
		if filter.Hashtag != "" && p.Hashtag != filter.Hashtag {
			continue
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		post := p
		s.attachAuthorLocked(&post)
		posts = append(posts, &post)
	}
	sortPostsNewestFirst(posts)
	return page(posts, filter.Limit, filter.Offset), nil
}

func (s *Store) GetPostsByUserID(_ context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var posts []*models.Post
	for _, p := range s.posts {
		if p.UserID == nil || *p.UserID != userID {
			continue
		}
		post := p
		s.attachAuthorLocked(&post)
		posts = append(posts, &post)
	}
	sortPostsNewestFirst(posts)
	return page(posts, limit, offset), nil
}

func (s *Store) UpdatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[post.ID]; !ok {
		return models.NewNotFoundError("Post", post.ID)
	}
	post.UpdatedAt = time.Now().UTC()
	stored := *post
	stored.User = nil
	s.posts[post.ID] = stored
	return nil
}

func (s *Store) DeletePost(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
	for rid, r := range s.reactions {
		if r.PostID == id {
			delete(s.reactions, rid)
		}
	}
	for eid, e := range s.endorsements {
		if e.PostID == id {
			delete(s.endorsements, eid)
		}
	}
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

func (s *Store) TrendingHashtags(_ context.Context, limit int) ([]models.HashtagCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[string]int)
	for _, p := range s.posts {
		totals[p.Hashtag]++
	}
	counts := lo.MapToSlice(totals, func(hashtag string, count int) models.HashtagCount {
		return models.HashtagCount{Hashtag: hashtag, Count: count}
	})
	repository.SortHashtagCounts(counts)
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}

func (s *Store) attachAuthorLocked(post *models.Post) {
	if post.UserID == nil {
		return
	}
	if u, ok := s.users[*post.UserID]; ok {
		user := u
		post.User = &user
	}
}

func sortPostsNewestFirst(posts []*models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

// --- reactions and endorsements ---

func (s *Store) SetReaction(_ context.Context, userID, postID uint, kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.reactions {
		if r.UserID == userID && r.PostID == postID {
			r.Kind = kind
			s.reactions[id] = r
			return nil
		}
	}
	s.nextReactionID++
	s.reactions[s.nextReactionID] = models.Reaction{
		ID:        s.nextReactionID,
		UserID:    userID,
		PostID:    postID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *Store) GetReaction(_ context.Context, userID, postID uint) (*models.Reaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reactions {
		if r.UserID == userID && r.PostID == postID {
			reaction := r
			return &reaction, nil
		}
	}
	return nil, nil
}

func (s *Store) ReactionHistogramForPosts(_ context.Context, postIDs []uint) (map[uint]map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[uint]struct{}, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = struct{}{}
	}

	result := make(map[uint]map[string]int, len(postIDs))
	for _, r := range s.reactions {
		if _, ok := wanted[r.PostID]; !ok {
			continue
		}
		if result[r.PostID] == nil {
			result[r.PostID] = make(map[string]int)
		}
		result[r.PostID][r.Kind]++
	}
	return result, nil
}

func (s *Store) ReactionsForUser(_ context.Context, userID uint, postIDs []uint) (map[uint]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[uint]struct{}, len(postIDs))
	for _, id := range postIDs {
		wanted[id] = struct{}{}
	}

	result := make(map[uint]string, len(postIDs))
	for _, r := range s.reactions {
		if r.UserID != userID {
			continue
		}
		if _, ok := wanted[r.PostID]; !ok {
			continue
		}
		result[r.PostID] = r.Kind
	}
	return result, nil
}

func (s *Store) CreateEndorsement(_ context.Context, e *models.Endorsement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.endorsements {
		if existing.UserID == e.UserID && existing.PostID == e.PostID && existing.Hashtag == e.Hashtag {
			return models.NewConflictError("You have already endorsed this post")
		}
	}
	s.nextEndorsementID++
	e.ID = s.nextEndorsementID
	s.endorsements[e.ID] = *e
	return nil
}

func (s *Store) GetEndorsement(_ context.Context, userID, postID uint, hashtag string) (*models.Endorsement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.endorsements {
		if e.UserID == userID && e.PostID == postID && e.Hashtag == hashtag {
			endorsement := e
			return &endorsement, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateEndorsementType(_ context.Context, id uint, newType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.endorsements[id]
	if !ok {
		return models.NewNotFoundError("Endorsement", id)
	}
	e.Type = newType
	s.endorsements[id] = e
	return nil
}

func (s *Store) HashtagReputationForUser(_ context.Context, profileUserID uint) ([]models.HashtagCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	authored := make(map[uint]string)
	for _, p := range s.posts {
		if p.UserID != nil && *p.UserID == profileUserID {
			authored[p.ID] = p.Hashtag
		}
	}

	totals := make(map[string]int)
	for _, r := range s.reactions {
		if hashtag, ok := authored[r.PostID]; ok {
			totals[hashtag]++
		}
	}
	for _, e := range s.endorsements {
		if _, ok := authored[e.PostID]; ok {
			totals[e.Hashtag]++
		}
	}

	counts := lo.MapToSlice(totals, func(hashtag string, count int) models.HashtagCount {
		return models.HashtagCount{Hashtag: hashtag, Count: count}
	})
	repository.SortHashtagCounts(counts)
	return counts, nil
}

func (s *Store) TopEngagedHashtags(_ context.Context, limit int) ([]models.HashtagCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hashtags := make(map[uint]string, len(s.posts))
	for _, p := range s.posts {
		hashtags[p.ID] = p.Hashtag
	}

	totals := make(map[string]int)
	for _, r := range s.reactions {
		if hashtag, ok := hashtags[r.PostID]; ok {
			totals[hashtag]++
		}
	}
	for _, e := range s.endorsements {
		totals[e.Hashtag]++
	}

	counts := lo.MapToSlice(totals, func(hashtag string, count int) models.HashtagCount {
		return models.HashtagCount{Hashtag: hashtag, Count: count}
	})
	repository.SortHashtagCounts(counts)
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}

// --- comments ---

func (s *Store) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextCommentID++
	comment.ID = s.nextCommentID
	comment.CreatedAt = time.Now().UTC()
	stored := *comment
	stored.User = nil
	s.comments[comment.ID] = stored
	return nil
}

func (s *Store) GetCommentByID(_ context.Context, id uint) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, models.NewNotFoundError("Comment", id)
	}
	comment := c
	if u, exists := s.users[comment.UserID]; exists {
		user := u
		comment.User = &user
	}
	return &comment, nil
}

func (s *Store) ListCommentsByPost(_ context.Context, postID uint) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var comments []*models.Comment
	for _, c := range s.comments {
		if c.PostID != postID {
			continue
		}
		comment := c
		if u, ok := s.users[comment.UserID]; ok {
			user := u
			comment.User = &user
		}
		comments = append(comments, &comment)
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

func (s *Store) CountCommentsByPost(_ context.Context, postID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, c := range s.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

// --- invites ---

func (s *Store) CreateInvite(_ context.Context, invite *models.Invite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.invites {
		if existing.Code == invite.Code {
			return models.NewConflictError("Invite code already exists")
		}
	}
	s.nextInviteID++
	invite.ID = s.nextInviteID
	s.invites[invite.ID] = *invite
	return nil
}

func (s *Store) GetInviteByCode(_ context.Context, code string) (*models.Invite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, i := range s.invites {
		if i.Code == code {
			invite := i
			return &invite, nil
		}
	}
	return nil, nil
}

func (s *Store) MarkInviteUsed(_ context.Context, code string, usedByUserID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, i := range s.invites {
		if i.Code != code {
			continue
		}
		if i.UsedAt != nil {
			return models.NewConflictError("Invite code is invalid or already used")
		}
		now := time.Now().UTC()
		i.UsedAt = &now
		i.UsedByUserID = &usedByUserID
		s.invites[id] = i
		return nil
	}
	return models.NewConflictError("Invite code is invalid or already used")
}

// --- profile views ---

func (s *Store) CreateProfileView(_ context.Context, view *models.ProfileView) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProfileViewID++
	view.ID = s.nextProfileViewID
	if view.ViewedAt.IsZero() {
		view.ViewedAt = time.Now().UTC()
	}
	stored := *view
	stored.Viewer = nil
	s.profileViews[view.ID] = stored
	return nil
}

func (s *Store) HasRecent(_ context.Context, viewerID, profileUserID uint, since time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.profileViews {
		if v.ViewerID == viewerID && v.ProfileUserID == profileUserID && v.ViewedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CountByProfile(_ context.Context, profileUserID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, v := range s.profileViews {
		if v.ProfileUserID == profileUserID {
			count++
		}
	}
	return count, nil
}

func (s *Store) ListViewers(_ context.Context, profileUserID uint, limit int) ([]*models.ProfileView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var views []*models.ProfileView
	for _, v := range s.profileViews {
		if v.ProfileUserID != profileUserID {
			continue
		}
		view := v
		if u, ok := s.users[view.ViewerID]; ok {
			user := u
			view.Viewer = &user
		}
		views = append(views, &view)
	}
	sort.Slice(views, func(i, j int) bool {
		if !views[i].ViewedAt.Equal(views[j].ViewedAt) {
			return views[i].ViewedAt.After(views[j].ViewedAt)
		}
		return views[i].ID > views[j].ID
	})
	return page(views, limit, 0), nil
}

func (s *Store) RecentViews(_ context.Context, profileUserID uint, since time.Time) ([]*models.ProfileView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var views []*models.ProfileView
	for _, v := range s.profileViews {
		if v.ProfileUserID != profileUserID || !v.ViewedAt.After(since) {
			continue
		}
		view := v
		views = append(views, &view)
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].ViewedAt.Before(views[j].ViewedAt)
	})
	return views, nil
}
