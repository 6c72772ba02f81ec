package mockapi

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/packfinderz-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/security"
	"github.com/angelmondragon/packfinderz-storefront/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type account struct {
	user         types.User
	passwordHash string
}

type refreshGrant struct {
	userID    string
	expiresAt time.Time
}

// state is the in-memory backing store for the development stub backend.
// Everything lives behind one mutex; the stub is single-process by design.
type state struct {
	mu       sync.Mutex
	accounts map[string]*account      // keyed by user id
	emails   map[string]string        // email -> user id
	refresh  map[string]refreshGrant  // refresh token -> grant
	products map[string]types.Product // keyed by product id
	media    map[string]types.Media   // keyed by media id

	now func() time.Time
}

func newState() *state {
	return &state{
		accounts: map[string]*account{},
		emails:   map[string]string{},
		refresh:  map[string]refreshGrant{},
		products: map[string]types.Product{},
		media:    map[string]types.Media{},
		now:      time.Now,
	}
}

func (s *state) createAccount(name, email, password string, role enums.UserRole, avatar string) (types.User, error) {
	hash, err := security.HashPassword(password, security.DefaultParams())
	if err != nil {
		return types.User{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(strings.TrimSpace(email))
	if _, taken := s.emails[key]; taken {
		return types.User{}, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
	}

	user := types.User{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  key,
		Role:   role,
		Avatar: avatar,
	}
	s.accounts[user.ID] = &account{user: user, passwordHash: hash}
	s.emails[key] = user.ID
	return user, nil
}

func (s *state) authenticate(email, password string) (types.User, error) {
	s.mu.Lock()
	id, ok := s.emails[strings.ToLower(strings.TrimSpace(email))]
	var acct *account
	if ok {
		acct = s.accounts[id]
	}
	s.mu.Unlock()

	if acct == nil {
		return types.User{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}
	match, err := security.VerifyPassword(password, acct.passwordHash)
	if err != nil {
		return types.User{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return types.User{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}
	return acct.user, nil
}

func (s *state) findUser(id string) (types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return types.User{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return acct.user, nil
}

func (s *state) updateUser(id string, name, email, avatar string) (types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return types.User{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	if name != "" {
		acct.user.Name = name
	}
	if email != "" {
		key := strings.ToLower(strings.TrimSpace(email))
		if owner, taken := s.emails[key]; taken && owner != id {
			return types.User{}, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
		}
		delete(s.emails, acct.user.Email)
		acct.user.Email = key
		s.emails[key] = id
	}
	if avatar != "" {
		acct.user.Avatar = avatar
	}
	return acct.user, nil
}

func (s *state) issueRefresh(userID string, ttl time.Duration) string {
	token := uuid.NewString()

	s.mu.Lock()
	s.refresh[token] = refreshGrant{userID: userID, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
	return token
}

// redeemRefresh rotates the grant: the presented token is consumed whether or
// not it is still valid.
func (s *state) redeemRefresh(token string) (string, error) {
	s.mu.Lock()
	grant, ok := s.refresh[token]
	delete(s.refresh, token)
	now := s.now()
	s.mu.Unlock()

	if !ok || now.After(grant.expiresAt) {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "refresh token is invalid or expired")
	}
	return grant.userID, nil
}

func (s *state) revokeRefresh(token string) {
	s.mu.Lock()
	delete(s.refresh, token)
	s.mu.Unlock()
}

type productFilter struct {
	search   string
	category string
	sellerID string
	page     int
	perPage  int
}

func (s *state) listProducts(filter productFilter) types.Page[types.Product] {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]types.Product, 0, len(s.products))
	needle := strings.ToLower(filter.search)
	for _, product := range s.products {
		if needle != "" && !strings.Contains(strings.ToLower(product.Name), needle) {
			continue
		}
		if filter.category != "" && product.Category != filter.category {
			continue
		}
		if filter.sellerID != "" && product.SellerID != filter.sellerID {
			continue
		}
		matched = append(matched, product)
	}
	sortProductsByCreatedAt(matched)

	page := filter.page
	if page < 1 {
		page = 1
	}
	perPage := filter.perPage
	if perPage < 1 {
		perPage = 20
	}

	total := len(matched)
	totalPages := (total + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	return types.Page[types.Product]{
		Items:      matched[start:end],
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}
}

func (s *state) getProduct(id string) (types.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return types.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *state) createProduct(sellerID string, input productInput) types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	product := types.Product{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Description:    input.Description,
		Category:       input.Category,
		Price:          input.Price,
		AvailableStock: input.AvailableStock,
		SellerID:       sellerID,
		Images:         s.mediaForLocked(input.ImageIDs),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.products[product.ID] = product
	return product
}

func (s *state) updateProduct(sellerID, id string, input productInput) (types.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return types.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if product.SellerID != sellerID {
		return types.Product{}, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another seller")
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Category = input.Category
	product.Price = input.Price
	product.AvailableStock = input.AvailableStock
	product.Images = s.mediaForLocked(input.ImageIDs)
	product.UpdatedAt = s.now()
	s.products[id] = product
	return product, nil
}

func (s *state) deleteProduct(sellerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if product.SellerID != sellerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another seller")
	}
	delete(s.products, id)
	return nil
}

func (s *state) listMedia(ownerID string) []types.Media {
	s.mu.Lock()
	defer s.mu.Unlock()

	assets := make([]types.Media, 0, len(s.media))
	for _, asset := range s.media {
		if asset.OwnerID == ownerID {
			assets = append(assets, asset)
		}
	}
	sortMediaByCreatedAt(assets)
	return assets
}

func (s *state) addMedia(ownerID, filename string, kind enums.MediaKind, size int64) types.Media {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset := types.Media{
		ID:        uuid.NewString(),
		URL:       fmt.Sprintf("http://localhost/media/%s/%s", ownerID, filename),
		Kind:      kind,
		Filename:  filename,
		SizeBytes: size,
		OwnerID:   ownerID,
		CreatedAt: s.now(),
	}
	s.media[asset.ID] = asset
	return asset
}

func (s *state) deleteMedia(ownerID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	asset, ok := s.media[id]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
	}
	if asset.OwnerID != ownerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "media belongs to another seller")
	}
	delete(s.media, id)
	return nil
}

func (s *state) mediaForLocked(ids []string) []types.Media {
	if len(ids) == 0 {
		return nil
	}
	assets := make([]types.Media, 0, len(ids))
	for _, id := range ids {
		if asset, ok := s.media[id]; ok {
			assets = append(assets, asset)
		}
	}
	return assets
}

func sortProductsByCreatedAt(products []types.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})
}

func sortMediaByCreatedAt(assets []types.Media) {
	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].CreatedAt.Before(assets[j].CreatedAt)
	})
}

// Seed loads a demo seller and a small catalog so the storefront has data to
// render without manual setup.
func (s *state) seed() error {
	seller, err := s.createAccount("Demo Seller", "seller@packfinderz.dev", "packfinderz", enums.UserRoleSeller, "")
	if err != nil {
		return err
	}
	if _, err := s.createAccount("Demo Shopper", "shopper@packfinderz.dev", "packfinderz", enums.UserRoleClient, ""); err != nil {
		return err
	}

	samples := []struct {
		name     string
		category string
		price    string
		stock    int
	}{
		{"Jasmine Green Tea", "tea", "12.50", 24},
		{"Ceramic Pour-Over Set", "brewing", "48.00", 5},
		{"Single-Origin Espresso Beans", "coffee", "19.90", 0},
	}
	for _, sample := range samples {
		price, err := decimal.NewFromString(sample.price)
		if err != nil {
			return err
		}
		s.createProduct(seller.ID, productInput{
			Name:           sample.name,
			Category:       sample.category,
			Price:          price,
			AvailableStock: sample.stock,
		})
	}
	return nil
}
