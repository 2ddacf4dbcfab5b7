// Package cartstore keeps the shopper's cart on the local device. Mutations clamp to the
// stock ceiling, are written to a bbolt file before they return and, when a remote API is
// configured, are replaced by the cart the server returns.
package cartstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/logging"
	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

var (
	cartsBucket = []byte("carts")
	metaBucket  = []byte("meta")
	cartIDKey   = []byte("cart_id")
)

const defaultLockTimeout = time.Second

// Remote is the server cart API. Every call returns the cart as the server stores it.
type Remote interface {
	GetCart(ctx context.Context, cartID domain.CartID) (domain.Cart, error)
	AddItem(ctx context.Context, cartID domain.CartID, productID domain.ProductID, qty int) (domain.Cart, error)
	UpdateItem(ctx context.Context, cartID domain.CartID, productID domain.ProductID, qty int) (domain.Cart, error)
	RemoveItem(ctx context.Context, cartID domain.CartID, productID domain.ProductID) (domain.Cart, error)
	ClearCart(ctx context.Context, cartID domain.CartID) (domain.Cart, error)
}

type Options struct {
	// Remote is optional. Without it the store works offline.
	Remote Remote
	// CartID selects the cart; empty resumes the last used cart or starts a new one.
	CartID      domain.CartID
	Logger      zerolog.Logger
	LockTimeout time.Duration
}

type Store struct {
	mu     sync.Mutex
	db     *bolt.DB
	remote Remote
	logger zerolog.Logger
	cart   domain.Cart
	now    func() time.Time
}

// Open holds an exclusive lock on the file until Close, so a second process sharing the
// same state waits up to LockTimeout and then fails with bolt.ErrTimeout.
func Open(path string, opts Options) (*Store, error) {
	timeout := opts.LockTimeout
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("bolt.Open: %w", err)
	}

	s := &Store{
		db:     db,
		remote: opts.Remote,
		logger: logging.For(opts.Logger, "cartstore"),
		now:    func() time.Time { return time.Now().UTC() },
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		cart, err := s.load(tx, opts.CartID)
		if err != nil {
			return err
		}
		s.cart = cart
		return nil
	}); err != nil {
		return nil, errors.Join(err, db.Close())
	}

	return s, nil
}

func (s *Store) load(tx *bolt.Tx, requested domain.CartID) (domain.Cart, error) {
	carts, err := tx.CreateBucketIfNotExists(cartsBucket)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("tx.CreateBucketIfNotExists: %w", err)
	}
	meta, err := tx.CreateBucketIfNotExists(metaBucket)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("tx.CreateBucketIfNotExists: %w", err)
	}

	cartID := requested
	if cartID == "" {
		cartID = domain.CartID(meta.Get(cartIDKey))
	}
	if cartID == "" {
		cartID = domain.CartID(uuid.NewString())
	}
	if cartID, err = domain.ParseCartID(cartID.String()); err != nil {
		return domain.Cart{}, fmt.Errorf("domain.ParseCartID: %w", err)
	}

	if err := meta.Put(cartIDKey, []byte(cartID)); err != nil {
		return domain.Cart{}, fmt.Errorf("meta.Put: %w", err)
	}

	data := carts.Get([]byte(cartID))
	if data == nil {
		cart := domain.NewCart(cartID)
		cart.CreatedAt = s.now()
		cart.UpdatedAt = cart.CreatedAt
		return cart, nil
	}

	cart, err := decodeCart(data)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("decodeCart[%s]: %w", cartID, err)
	}
	return cart, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CartID() domain.CartID {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.ID
}

func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.Clone()
}

// Add merges qty units of p, clamped to p.Stock. Only the quantity actually added is
// sent to the remote; a clamp that adds nothing skips the call.
func (s *Store) Add(ctx context.Context, p domain.Product, qty int) (domain.Cart, error) {
	var delta int

	return s.mutate(ctx, "add",
		func(c *domain.Cart) error {
			before := quantityOf(*c, p.ID)
			if err := c.Add(p, qty, domain.ClampToStock); err != nil {
				return err
			}
			delta = quantityOf(*c, p.ID) - before
			return nil
		},
		func(ctx context.Context, next domain.Cart) (domain.Cart, error) {
			if delta == 0 {
				return next, nil
			}
			return s.remote.AddItem(ctx, next.ID, p.ID, delta)
		})
}

// UpdateQuantity clamps qty to the stock ceiling of the item. A quantity below one
// removes the item.
func (s *Store) UpdateQuantity(ctx context.Context, productID domain.ProductID, qty int) (domain.Cart, error) {
	if qty < 1 {
		return s.Remove(ctx, productID)
	}

	return s.mutate(ctx, "update",
		func(c *domain.Cart) error {
			return c.UpdateQuantity(productID, qty, domain.ClampToStock)
		},
		func(ctx context.Context, next domain.Cart) (domain.Cart, error) {
			return s.remote.UpdateItem(ctx, next.ID, productID, quantityOf(next, productID))
		})
}

// Remove is idempotent: an item missing locally or on the server is not an error.
func (s *Store) Remove(ctx context.Context, productID domain.ProductID) (domain.Cart, error) {
	return s.mutate(ctx, "remove",
		func(c *domain.Cart) error {
			c.Remove(productID)
			return nil
		},
		func(ctx context.Context, next domain.Cart) (domain.Cart, error) {
			cart, err := s.remote.RemoveItem(ctx, next.ID, productID)
			if errors.Is(err, domain.ErrCartItemNotFound) || errors.Is(err, domain.ErrCartNotFound) {
				return next, nil
			}
			return cart, err
		})
}

func (s *Store) Clear(ctx context.Context) (domain.Cart, error) {
	return s.mutate(ctx, "clear",
		func(c *domain.Cart) error {
			c.Clear()
			return nil
		},
		func(ctx context.Context, next domain.Cart) (domain.Cart, error) {
			cart, err := s.remote.ClearCart(ctx, next.ID)
			if errors.Is(err, domain.ErrCartNotFound) {
				return next, nil
			}
			return cart, err
		})
}

// Refresh replaces the local cart with the server copy. Without a remote it returns the
// local cart.
func (s *Store) Refresh(ctx context.Context) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.remote == nil {
		return s.cart.Clone(), nil
	}

	synced, err := s.remote.GetCart(ctx, s.cart.ID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("remote.GetCart: %w", err)
	}

	synced = s.adopt(synced)
	if err := s.persist(synced); err != nil {
		return domain.Cart{}, err
	}
	s.cart = synced

	return s.cart.Clone(), nil
}

type (
	localFunc  func(c *domain.Cart) error
	remoteFunc func(ctx context.Context, next domain.Cart) (domain.Cart, error)
)

// mutate applies local to a copy of the cart and persists it. With a remote, the server
// response becomes the new local cart; a failed remote call restores the previous one.
func (s *Store) mutate(ctx context.Context, op string, local localFunc, remote remoteFunc) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := s.logger.With().Str(logging.Op, op).Str(logging.CartID, s.cart.ID.String()).Logger()

	prev := s.cart
	next := prev.Clone()
	if err := local(&next); err != nil {
		return domain.Cart{}, err
	}
	next.UpdatedAt = s.now()

	if err := s.persist(next); err != nil {
		return domain.Cart{}, err
	}
	s.cart = next

	if s.remote == nil {
		logger.Debug().Int("total_items", next.TotalItems()).Msg("cart updated locally")
		return s.cart.Clone(), nil
	}

	synced, err := remote(ctx, next)
	if err != nil {
		logger.Warn().Err(err).Msg("remote rejected cart change, restoring previous cart")
		if perr := s.persist(prev); perr != nil {
			return domain.Cart{}, errors.Join(err, perr)
		}
		s.cart = prev
		return domain.Cart{}, err
	}

	synced = s.adopt(synced)
	if err := s.persist(synced); err != nil {
		return domain.Cart{}, err
	}
	s.cart = synced

	logger.Debug().Int("total_items", synced.TotalItems()).Msg("cart synced")
	return s.cart.Clone(), nil
}

// adopt keeps the local timestamps, which the API does not carry.
func (s *Store) adopt(synced domain.Cart) domain.Cart {
	synced.CreatedAt = s.cart.CreatedAt
	synced.UpdatedAt = s.now()
	return synced
}

func (s *Store) persist(c domain.Cart) error {
	data, err := encodeCart(c)
	if err != nil {
		return fmt.Errorf("encodeCart: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(cartsBucket)
		if b == nil {
			return fmt.Errorf("bucket[%s] not found", cartsBucket)
		}
		return b.Put([]byte(c.ID), data)
	})
	if err != nil {
		return fmt.Errorf("db.Update: %w", err)
	}
	return nil
}

func quantityOf(c domain.Cart, productID domain.ProductID) int {
	item, ok := c.Item(productID)
	if !ok {
		return 0
	}
	return item.Quantity
}
