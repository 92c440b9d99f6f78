package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.OrderRepository   = (*OrderRepo)(nil)
	_ repository.BillRepository    = (*BillRepo)(nil)
)

// maxIDProbes intentos de obtener un ID libre de orders:seq cuando choca con IDs explícitos.
const maxIDProbes = 16

// reader lo común entre *redis.Client y *redis.Tx que usan las lecturas.
type reader interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

func (s *Store) reader(u *unit) reader {
	if u != nil {
		return u.tx
	}
	return s.client
}

// Mapeo explícito de hashes.

type productRecord struct {
	ID       int64  `redis:"id"`
	Name     string `redis:"name"`
	Price    int64  `redis:"price"`
	Quantity int64  `redis:"quantity"`
}

func productFields(p entity.Product) map[string]any {
	return map[string]any{"id": p.ID, "name": p.Name, "price": p.Price, "quantity": p.Quantity}
}

type orderRecord struct {
	ID        int64  `redis:"id"`
	ClientID  int64  `redis:"client_id"`
	ProductID int64  `redis:"product_id"`
	Quantity  int64  `redis:"quantity"`
	Price     int64  `redis:"price"`
	CreatedAt string `redis:"created_at"`
}

func orderFields(o entity.Order) map[string]any {
	return map[string]any{
		"id": o.ID, "client_id": o.ClientID, "product_id": o.ProductID,
		"quantity": o.Quantity, "price": o.Price,
		"created_at": o.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type billRecord struct {
	OrderID   int64  `redis:"order_id"`
	ClientID  int64  `redis:"client_id"`
	ProductID int64  `redis:"product_id"`
	Quantity  int64  `redis:"quantity"`
	Price     int64  `redis:"price"`
	Total     string `redis:"total"`
	CreatedAt string `redis:"created_at"`
}

func billFields(b entity.Bill) map[string]any {
	return map[string]any{
		"order_id": b.OrderID, "client_id": b.ClientID, "product_id": b.ProductID,
		"quantity": b.Quantity, "price": b.Price, "total": b.Total.String(),
		"created_at": b.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// loadHash lee un hash en dst. Devuelve false si la clave no existe.
func loadHash(ctx context.Context, r reader, key string, dst any) (bool, error) {
	cmd := r.HGetAll(ctx, key)
	fields, err := cmd.Result()
	if err != nil {
		return false, storageErr("hgetall "+key, err)
	}
	if len(fields) == 0 {
		return false, nil
	}
	if err := cmd.Scan(dst); err != nil {
		return false, fmt.Errorf("%w: hash %s corrupto: %w", domain.ErrStorage, key, err)
	}
	return true, nil
}

func parseTime(key, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s created_at: %w", domain.ErrStorage, key, err)
	}
	return t.UTC(), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

// ProductRepo Inventory Store sobre Redis. Con u != nil opera dentro de una unidad.
type ProductRepo struct {
	s *Store
	u *unit
}

// GetByID devuelve el producto; dentro de una unidad la clave queda vigilada.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	key := r.s.productKey(id)
	if r.u != nil {
		if err := r.u.watch(ctx, key); err != nil {
			return nil, err
		}
	}
	var rec productRecord
	ok, err := loadHash(ctx, r.s.reader(r.u), key, &rec)
	if err != nil || !ok {
		return nil, err
	}
	p := &entity.Product{ID: id, Name: rec.Name, Price: rec.Price, Quantity: rec.Quantity}
	if r.u != nil {
		if q, staged := r.u.staged[id]; staged {
			p.Quantity = q
		}
	}
	return p, nil
}

// GetForUpdate vigila la clave del producto (WATCH); el bloqueo es optimista.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// DecrementQuantity encola HINCRBY -amount si la cantidad observada es expected.
// Fuera de una unidad abre su propia transacción.
func (r *ProductRepo) DecrementQuantity(ctx context.Context, id, amount, expected int64) error {
	if amount <= 0 {
		return domain.ErrInvalidInput
	}
	if r.u == nil {
		return r.s.atomically(ctx, func(u *unit) error {
			return (&ProductRepo{s: r.s, u: u}).DecrementQuantity(ctx, id, amount, expected)
		})
	}

	p, err := r.GetByID(ctx, id)
	switch {
	case err != nil:
		return err
	case p == nil:
		return fmt.Errorf("%w: id %d", domain.ErrProductNotFound, id)
	case p.Quantity != expected:
		return domain.ErrConflict
	case amount > p.Quantity:
		return fmt.Errorf("%w: solicitado %d, disponible %d", domain.ErrInsufficientStock, amount, p.Quantity)
	}

	key := r.s.productKey(id)
	r.u.staged[id] = p.Quantity - amount
	r.u.ops = append(r.u.ops, func(pipe redis.Pipeliner) {
		pipe.HIncrBy(ctx, key, "quantity", -amount)
	})
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

// OrderRepo Order Ledger sobre Redis.
type OrderRepo struct {
	s *Store
	u *unit
}

// Append encola el pedido. Con order.ID == 0 el ID sale de orders:seq (INCR).
func (r *OrderRepo) Append(ctx context.Context, order *entity.Order) (int64, error) {
	if order.ClientID <= 0 || order.ProductID <= 0 || order.Quantity <= 0 || order.ID < 0 {
		return 0, domain.ErrInvalidInput
	}
	if r.u == nil {
		var id int64
		err := r.s.atomically(ctx, func(u *unit) error {
			var err error
			id, err = (&OrderRepo{s: r.s, u: u}).Append(ctx, order)
			return err
		})
		return id, err
	}

	id := order.ID
	if id == 0 {
		for i := 0; i < maxIDProbes && id == 0; i++ {
			n, err := r.u.tx.Incr(ctx, r.s.orderSeqKey()).Result()
			if err != nil {
				return 0, storageErr("incr orders:seq", err)
			}
			free, err := r.free(ctx, n)
			if err != nil {
				return 0, err
			}
			if free {
				id = n
			}
		}
		if id == 0 {
			return 0, fmt.Errorf("%w: sin ID libre para el pedido", domain.ErrStorage)
		}
	} else {
		free, err := r.free(ctx, id)
		if err != nil {
			return 0, err
		}
		if !free {
			return 0, fmt.Errorf("pedido %d: %w", id, domain.ErrDuplicate)
		}
	}

	o := *order
	o.ID = id
	key := r.s.orderKey(id)
	r.u.orders[id] = o
	r.u.ops = append(r.u.ops, func(pipe redis.Pipeliner) {
		pipe.HSet(ctx, key, orderFields(o))
	})
	return id, nil
}

// free indica si el ID no está usado; vigila la clave para detectar inserciones concurrentes.
func (r *OrderRepo) free(ctx context.Context, id int64) (bool, error) {
	if _, staged := r.u.orders[id]; staged {
		return false, nil
	}
	key := r.s.orderKey(id)
	if err := r.u.watch(ctx, key); err != nil {
		return false, err
	}
	n, err := r.u.tx.Exists(ctx, key).Result()
	if err != nil {
		return false, storageErr("exists "+key, err)
	}
	return n == 0, nil
}

// GetByID devuelve el pedido confirmado (o pendiente en la unidad actual).
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	if r.u != nil {
		if o, ok := r.u.orders[id]; ok {
			return &o, nil
		}
	}
	key := r.s.orderKey(id)
	var rec orderRecord
	ok, err := loadHash(ctx, r.s.reader(r.u), key, &rec)
	if err != nil || !ok {
		return nil, err
	}
	created, err := parseTime(key, rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &entity.Order{
		ID:        id,
		ClientID:  rec.ClientID,
		ProductID: rec.ProductID,
		Quantity:  rec.Quantity,
		Price:     rec.Price,
		CreatedAt: created,
	}, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas
// ──────────────────────────────────────────────────────────────────────────────

// BillRepo Billing Ledger sobre Redis.
type BillRepo struct {
	s *Store
	u *unit
}

// Append encola la factura; el pedido referenciado debe existir o estar en la unidad.
func (r *BillRepo) Append(ctx context.Context, bill *entity.Bill) error {
	if r.u == nil {
		return r.s.atomically(ctx, func(u *unit) error {
			return (&BillRepo{s: r.s, u: u}).Append(ctx, bill)
		})
	}

	if _, staged := r.u.orders[bill.OrderID]; !staged {
		orderKey := r.s.orderKey(bill.OrderID)
		if err := r.u.watch(ctx, orderKey); err != nil {
			return err
		}
		n, err := r.u.tx.Exists(ctx, orderKey).Result()
		if err != nil {
			return storageErr("exists "+orderKey, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: factura %d sin pedido", domain.ErrStorage, bill.OrderID)
		}
	}

	key := r.s.billKey(bill.OrderID)
	if err := r.u.watch(ctx, key); err != nil {
		return err
	}
	n, err := r.u.tx.Exists(ctx, key).Result()
	if err != nil {
		return storageErr("exists "+key, err)
	}
	if _, staged := r.u.bills[bill.OrderID]; staged || n > 0 {
		return fmt.Errorf("factura %d: %w", bill.OrderID, domain.ErrDuplicate)
	}

	b := *bill
	r.u.bills[b.OrderID] = b
	r.u.ops = append(r.u.ops, func(pipe redis.Pipeliner) {
		pipe.HSet(ctx, key, billFields(b))
	})
	return nil
}

// GetByOrderID devuelve la factura del pedido.
func (r *BillRepo) GetByOrderID(ctx context.Context, orderID int64) (*entity.Bill, error) {
	if r.u != nil {
		if b, ok := r.u.bills[orderID]; ok {
			return &b, nil
		}
	}
	key := r.s.billKey(orderID)
	var rec billRecord
	ok, err := loadHash(ctx, r.s.reader(r.u), key, &rec)
	if err != nil || !ok {
		return nil, err
	}
	created, err := parseTime(key, rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	total, err := decimal.NewFromString(rec.Total)
	if err != nil {
		return nil, fmt.Errorf("%w: %s total: %w", domain.ErrStorage, key, err)
	}
	return &entity.Bill{
		OrderID:   orderID,
		ClientID:  rec.ClientID,
		ProductID: rec.ProductID,
		Quantity:  rec.Quantity,
		Price:     rec.Price,
		Total:     total,
		CreatedAt: created,
	}, nil
}
