package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"updoot/internal/models"

	"gorm.io/gorm"
)

func createUser(t *testing.T, conn *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@test.com", Password: "hash"}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func createPost(t *testing.T, conn *gorm.DB, userID uint, title string) *models.Post {
	t.Helper()
	post := models.Post{UserID: userID, Title: title, Text: "some text"}
	if err := conn.Create(&post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return &post
}

func postPoints(t *testing.T, conn *gorm.DB, postID uint) int {
	t.Helper()
	var post models.Post
	if err := conn.First(&post, postID).Error; err != nil {
		t.Fatalf("failed to load post: %v", err)
	}
	return post.Points
}

func voteCount(t *testing.T, conn *gorm.DB, postID uint) int64 {
	t.Helper()
	var count int64
	conn.Model(&models.Vote{}).Where("post_id = ?", postID).Count(&count)
	return count
}

func TestApplyVoteFirstUpvote(t *testing.T) {
	conn := newTestDB(t)
	svc := NewVoteService(conn)
	user := createUser(t, conn, "alice")
	post := createPost(t, conn, user.ID, "hello")

	updated, err := svc.Apply(user.ID, post.ID, "up")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if updated.Points != 1 {
		t.Errorf("Expected points 1, got %d", updated.Points)
	}

	var vote models.Vote
	if err := conn.Where("user_id = ? AND post_id = ?", user.ID, post.ID).First(&vote).Error; err != nil {
		t.Fatalf("Expected a vote record: %v", err)
	}
	if vote.Value != 1 {
		t.Errorf("Expected vote value 1, got %d", vote.Value)
	}
}

// 重复同方向投票 = 撤票
func TestApplyVoteToggleRetracts(t *testing.T) {
	conn := newTestDB(t)
	svc := NewVoteService(conn)
	user := createUser(t, conn, "alice")
	post := createPost(t, conn, user.ID, "hello")

	if _, err := svc.Apply(user.ID, post.ID, "up"); err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}
	updated, err := svc.Apply(user.ID, post.ID, "up")
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}

	if updated.Points != 0 {
		t.Errorf("Expected points back to 0 after toggle, got %d", updated.Points)
	}
	if n := voteCount(t, conn, post.ID); n != 0 {
		t.Errorf("Expected vote record removed, got %d records", n)
	}
}

// 反方向改票：分数变化 2，只保留一条新方向的记录
func TestApplyVoteSwitchDirection(t *testing.T) {
	conn := newTestDB(t)
	svc := NewVoteService(conn)
	user := createUser(t, conn, "alice")
	post := createPost(t, conn, user.ID, "hello")

	if _, err := svc.Apply(user.ID, post.ID, "up"); err != nil {
		t.Fatalf("up Apply failed: %v", err)
	}
	pointsAfterUp := postPoints(t, conn, post.ID)

	updated, err := svc.Apply(user.ID, post.ID, "down")
	if err != nil {
		t.Fatalf("down Apply failed: %v", err)
	}

	if updated.Points != pointsAfterUp-2 {
		t.Errorf("Expected points %d, got %d", pointsAfterUp-2, updated.Points)
	}
	if n := voteCount(t, conn, post.ID); n != 1 {
		t.Fatalf("Expected exactly one vote record, got %d", n)
	}
	var vote models.Vote
	conn.Where("user_id = ? AND post_id = ?", user.ID, post.ID).First(&vote)
	if vote.Value != -1 {
		t.Errorf("Expected vote value -1, got %d", vote.Value)
	}
}

// 多个用户各自投票，最终分数等于所有增量之和
func TestApplyVoteManyUsers(t *testing.T) {
	conn := newTestDB(t)
	svc := NewVoteService(conn)
	author := createUser(t, conn, "author")
	post := createPost(t, conn, author.ID, "hello")

	expected := 0
	for i := 0; i < 10; i++ {
		user := createUser(t, conn, fmt.Sprintf("user%d", i))
		direction := "up"
		delta := 1
		if i%3 == 0 {
			direction = "down"
			delta = -1
		}
		if _, err := svc.Apply(user.ID, post.ID, direction); err != nil {
			t.Fatalf("Apply for user%d failed: %v", i, err)
		}
		expected += delta
	}

	if got := postPoints(t, conn, post.ID); got != expected {
		t.Errorf("Expected points %d, got %d", expected, got)
	}

	// 不变量：points 等于所有有效投票 value 之和
	var sum int64
	conn.Model(&models.Vote{}).Where("post_id = ?", post.ID).Select("COALESCE(SUM(value), 0)").Scan(&sum)
	if int(sum) != expected {
		t.Errorf("Vote sum %d does not match expected %d", sum, expected)
	}
}

// 并发投票：N 个用户同时对同一帖子投票，交错顺序不影响结果，
// 最终分数等于所有增量之和（增量在事务内由 SQL 端累加，不走应用层读改写）
func TestApplyVoteConcurrentUsers(t *testing.T) {
	conn := newTestDB(t)
	svc := NewVoteService(conn)
	author := createUser(t, conn, "author")
	post := createPost(t, conn, author.ID, "hot")

	const n = 20
	users := make([]*models.User, n)
	directions := make([]string, n)
	expected := 0
	for i := 0; i < n; i++ {
		users[i] = createUser(t, conn, fmt.Sprintf("user%d", i))
		if i%4 == 0 {
			directions[i] = "down"
			expected--
		} else {
			directions[i] = "up"
			expected++
		}
	}

	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(userID uint, direction string) {
			defer wg.Done()
			if _, err := svc.Apply(userID, post.ID, direction); err != nil {
				errCh <- err
			}
		}(users[i].ID, directions[i])
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("concurrent Apply failed: %v", err)
	}

	if got := postPoints(t, conn, post.ID); got != expected {
		t.Errorf("Expected points %d, got %d", expected, got)
	}

	// 不变量：points 等于所有有效投票 value 之和
	var sum int64
	conn.Model(&models.Vote{}).Where("post_id = ?", post.ID).Select("COALESCE(SUM(value), 0)").Scan(&sum)
	if int(sum) != expected {
		t.Errorf("Vote sum %d does not match expected %d", sum, expected)
	}
	if n := voteCount(t, conn, post.ID); n != int64(len(users)) {
		t.Errorf("Expected %d vote records, got %d", len(users), n)
	}
}

func TestApplyVoteInvalidDirection(t *testing.T) {
	conn := newTestDB(t)
	svc := NewVoteService(conn)
	user := createUser(t, conn, "alice")
	post := createPost(t, conn, user.ID, "hello")

	for _, direction := range []string{"", "neutral", "UP", "0"} {
		if _, err := svc.Apply(user.ID, post.ID, direction); !errors.Is(err, ErrInvalidVote) {
			t.Errorf("direction %q: expected ErrInvalidVote, got %v", direction, err)
		}
	}

	// 非法输入不应产生任何写入
	if n := voteCount(t, conn, post.ID); n != 0 {
		t.Errorf("Expected no vote records, got %d", n)
	}
	if got := postPoints(t, conn, post.ID); got != 0 {
		t.Errorf("Expected points unchanged, got %d", got)
	}
}

func TestApplyVotePostNotFound(t *testing.T) {
	conn := newTestDB(t)
	svc := NewVoteService(conn)
	user := createUser(t, conn, "alice")

	if _, err := svc.Apply(user.ID, 9999, "up"); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("Expected ErrPostNotFound, got %v", err)
	}

	// 失败前不应有任何写入
	var count int64
	conn.Model(&models.Vote{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no vote records, got %d", count)
	}
}
