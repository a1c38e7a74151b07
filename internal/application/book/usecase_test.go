package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/auth"
	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/metrics"
)

func TestMain(m *testing.M) {
	metrics.InitMetrics()
	m.Run()
}

// fakeRepo 内存仓储，记录写操作次数供断言
type fakeRepo struct {
	books   map[uint]*book.Book
	nextID  uint
	writes  int
	listErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{books: map[uint]*book.Book{}, nextID: 1}
}

func (r *fakeRepo) Create(_ context.Context, b *book.Book) error {
	r.writes++
	b.ID = r.nextID
	r.nextID++
	r.books[b.ID] = b
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uint) (*book.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return b, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uint) error {
	r.writes++
	if _, ok := r.books[id]; !ok {
		return book.ErrBookNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *fakeRepo) List(_ context.Context, _ book.Query) ([]*book.Book, int64, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	var out []*book.Book
	for _, b := range r.books {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

// fakePublisher 记录已发布的事件
type fakePublisher struct {
	events []string
}

func (p *fakePublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	p.events = append(p.events, routingKey)
	return nil
}

var (
	adminID = &auth.Identity{UserID: 1, Email: "admin@bookstore.com", Role: auth.RoleAdmin}
	userID  = &auth.Identity{UserID: 2, Email: "user@bookstore.com", Role: auth.RoleUser}
)

func TestCreateBookAsAdmin(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	uc := NewCreateBookUseCase(book.NewService(repo), pub, zap.NewNop())

	dto, err := uc.Execute(context.Background(), adminID, CreateBookRequest{
		Title:      "了不起的盖茨比",
		Author:     "菲茨杰拉德",
		PriceCents: 1099,
	})
	require.NoError(t, err)
	assert.Equal(t, "10.99", dto.Price)
	assert.Equal(t, int64(1099), dto.PriceCents)
	assert.Equal(t, []string{"book.created"}, pub.events)
}

func TestCreateBookForbidden(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateBookUseCase(book.NewService(repo), nil, zap.NewNop())
	ctx := context.Background()

	req := CreateBookRequest{Title: "某书名", Author: "某作者", PriceCents: 100}

	// 普通用户 → 403
	_, err := uc.Execute(ctx, userID, req)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// 匿名 → 401
	_, err = uc.Execute(ctx, nil, req)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// 拒绝的请求不触碰存储
	assert.Zero(t, repo.writes)
}

func TestDeleteBookAsAdmin(t *testing.T) {
	repo := newFakeRepo()
	svc := book.NewService(repo)
	pub := &fakePublisher{}
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, "一九八四", "乔治·奥威尔", 999, "", "")
	require.NoError(t, err)

	uc := NewDeleteBookUseCase(svc, pub, zap.NewNop())
	require.NoError(t, uc.Execute(ctx, adminID, created.ID))
	assert.Equal(t, []string{"book.deleted"}, pub.events)

	// 再次删除 → NotFound
	err = uc.Execute(ctx, adminID, created.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestDeleteBookForbidden(t *testing.T) {
	repo := newFakeRepo()
	uc := NewDeleteBookUseCase(book.NewService(repo), nil, zap.NewNop())
	ctx := context.Background()

	assert.ErrorIs(t, uc.Execute(ctx, userID, 1), apperrors.ErrForbidden)
	assert.ErrorIs(t, uc.Execute(ctx, nil, 1), apperrors.ErrUnauthorized)
	assert.Zero(t, repo.writes)
}

func TestListBooks(t *testing.T) {
	repo := newFakeRepo()
	svc := book.NewService(repo)
	ctx := context.Background()

	_, err := svc.CreateBook(ctx, "杀死一只知更鸟", "哈珀·李", 1250, "", "")
	require.NoError(t, err)

	uc := NewListBooksUseCase(svc, zap.NewNop())
	resp := uc.Execute(ctx, ListBooksRequest{})
	assert.Equal(t, int64(1), resp.Total)
	assert.Len(t, resp.List, 1)
	assert.Equal(t, "12.50", resp.List[0].Price)
	assert.Equal(t, 1, resp.TotalPages)
}

func TestListBooksDegradesOnStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = apperrors.WrapStore(assert.AnError, "数据库不可达")
	uc := NewListBooksUseCase(book.NewService(repo), zap.NewNop())

	// 存储故障不返回错误，降级为空列表
	resp := uc.Execute(context.Background(), ListBooksRequest{Keyword: "gatsby"})
	assert.NotNil(t, resp)
	assert.Empty(t, resp.List)
	assert.Zero(t, resp.Total)
	assert.Equal(t, "gatsby", resp.Keyword)
}

func TestGetBook(t *testing.T) {
	repo := newFakeRepo()
	svc := book.NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, "某书名", "某作者", 100, "", "")
	require.NoError(t, err)

	uc := NewGetBookUseCase(svc)
	dto, err := uc.Execute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, dto.ID)

	_, err = uc.Execute(ctx, 9999)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "0.01", FormatPrice(1))
	assert.Equal(t, "0.99", FormatPrice(99))
	assert.Equal(t, "1.00", FormatPrice(100))
	assert.Equal(t, "10.99", FormatPrice(1099))
	assert.Equal(t, "1234.05", FormatPrice(123405))
}
