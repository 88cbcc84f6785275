package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinventory "github.com/jhoicas/Backoffice-api/internal/application/inventory"
	"github.com/jhoicas/Backoffice-api/internal/domain"
	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: store compartido + repos + tx runner con rollback
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type memStore struct {
	items     map[string]*entity.InventoryItem
	movements []*entity.StockMovement
}

func newMemStore(items ...*entity.InventoryItem) *memStore {
	s := &memStore{items: make(map[string]*entity.InventoryItem)}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

func (s *memStore) clone() *memStore {
	c := &memStore{items: make(map[string]*entity.InventoryItem, len(s.items))}
	for id, it := range s.items {
		copied := *it
		c.items[id] = &copied
	}
	c.movements = append(c.movements, s.movements...)
	return c
}

type memInventoryRepo struct{ s *memStore }

func (r *memInventoryRepo) Create(item *entity.InventoryItem) error {
	r.s.items[item.ID] = item
	return nil
}

func (r *memInventoryRepo) GetByID(id string) (*entity.InventoryItem, error) {
	return r.s.items[id], nil
}

func (r *memInventoryRepo) GetByIDForUpdate(id string) (*entity.InventoryItem, error) {
	return r.s.items[id], nil
}

func (r *memInventoryRepo) GetBySKU(sku string) (*entity.InventoryItem, error) {
	for _, it := range r.s.items {
		if it.SKU == sku {
			return it, nil
		}
	}
	return nil, nil
}

func (r *memInventoryRepo) List(search string, limit, offset int) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, it := range r.s.items {
		if it.Active {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *memInventoryRepo) Update(item *entity.InventoryItem) error {
	r.s.items[item.ID] = item
	return nil
}

func (r *memInventoryRepo) UpdateStock(id string, newStock decimal.Decimal) error {
	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.CurrentStock = newStock
	return nil
}

func (r *memInventoryRepo) Deactivate(id string) error {
	if it, ok := r.s.items[id]; ok {
		it.Active = false
	}
	return nil
}

type memMovementRepo struct {
	s       *memStore
	failGen bool // fuerza el fallo de Create para probar rollback
}

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	if r.failGen {
		return errors.New("disco lleno")
	}
	if m.ID == "" {
		m.ID = "mov-" + time.Now().Format("150405.000000000")
	}
	r.s.movements = append(r.s.movements, m)
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) ListByItem(inventoryID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.InventoryID == inventoryID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) List(from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.s.movements, nil
}

// memTxRunner simula la semántica transaccional: trabaja sobre una copia del
// store y solo publica los cambios si fn devuelve nil.
type memTxRunner struct {
	s           *memStore
	failMovRepo bool
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	invRepo repository.InventoryRepository,
) error) error {
	work := r.s.clone()
	err := fn(&memMovementRepo{s: work, failGen: r.failMovRepo}, &memInventoryRepo{s: work})
	if err != nil {
		return err
	}
	*r.s = *work
	return nil
}

func testItem(id string, stock string) *entity.InventoryItem {
	return &entity.InventoryItem{
		ID:           id,
		Name:         "Café molido 500g",
		SKU:          "CAF-500",
		Unit:         "und",
		CurrentStock: d(stock),
		CostPrice:    d("8.50"),
		SellingPrice: d("14.90"),
		Active:       true,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RegisterMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_Entrada(t *testing.T) {
	store := newMemStore(testItem("item-1", "10"))
	uc := appinventory.NewRegisterMovementUseCase(&memTxRunner{s: store})

	cost := d("8.00")
	resp, err := uc.RegisterMovement(context.Background(), appinventory.MovementInput{
		InventoryID: "item-1",
		Type:        entity.MovementTypeIn,
		Quantity:    d("5"),
		UnitCost:    &cost,
		UserID:      "user-1",
	})
	require.NoError(t, err)

	assert.True(t, resp.PreviousStock.Equal(d("10")))
	assert.True(t, resp.NewStock.Equal(d("15")))
	assert.True(t, store.items["item-1"].CurrentStock.Equal(d("15")))

	require.Len(t, store.movements, 1)
	mov := store.movements[0]
	assert.True(t, mov.Quantity.Equal(d("5")), "las entradas se guardan positivas")
	assert.True(t, mov.PreviousStock.Equal(d("10")))
	assert.True(t, mov.NewStock.Equal(d("15")))
	assert.Equal(t, "user-1", mov.CreatedBy)
}

func TestRegisterMovement_SalidaConStockSuficiente(t *testing.T) {
	store := newMemStore(testItem("item-1", "10"))
	uc := appinventory.NewRegisterMovementUseCase(&memTxRunner{s: store})

	resp, err := uc.RegisterMovement(context.Background(), appinventory.MovementInput{
		InventoryID: "item-1",
		Type:        entity.MovementTypeOut,
		Quantity:    d("10"),
		UserID:      "user-1",
	})
	require.NoError(t, err)
	assert.True(t, resp.NewStock.IsZero(), "sacar exactamente el stock disponible es válido")
	require.Len(t, store.movements, 1)
	assert.True(t, store.movements[0].Quantity.Equal(d("-10")), "las salidas se guardan negativas")
}

func TestRegisterMovement_SalidaInsuficienteNoMuta(t *testing.T) {
	store := newMemStore(testItem("item-1", "3"))
	uc := appinventory.NewRegisterMovementUseCase(&memTxRunner{s: store})

	_, err := uc.RegisterMovement(context.Background(), appinventory.MovementInput{
		InventoryID: "item-1",
		Type:        entity.MovementTypeOut,
		Quantity:    d("5"),
		UserID:      "user-1",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.True(t, stockErr.Available.Equal(d("3")))
	assert.True(t, stockErr.Requested.Equal(d("5")))

	// Nada cambió: ni stock ni libro.
	assert.True(t, store.items["item-1"].CurrentStock.Equal(d("3")))
	assert.Empty(t, store.movements)
}

func TestRegisterMovement_AjusteSobrescribe(t *testing.T) {
	store := newMemStore(testItem("item-1", "50"))
	uc := appinventory.NewRegisterMovementUseCase(&memTxRunner{s: store})

	resp, err := uc.RegisterMovement(context.Background(), appinventory.MovementInput{
		InventoryID: "item-1",
		Type:        entity.MovementTypeAdjustment,
		Quantity:    d("47.5"),
		Notes:       "conteo físico semanal",
		UserID:      "user-1",
	})
	require.NoError(t, err)
	assert.True(t, resp.NewStock.Equal(d("47.5")))
	require.Len(t, store.movements, 1)
	assert.True(t, store.movements[0].Quantity.Equal(d("47.5")), "el libro guarda el conteo final")
	assert.True(t, store.movements[0].PreviousStock.Equal(d("50")))
}

func TestRegisterMovement_AjusteACeroEsValido(t *testing.T) {
	store := newMemStore(testItem("item-1", "8"))
	uc := appinventory.NewRegisterMovementUseCase(&memTxRunner{s: store})

	resp, err := uc.RegisterMovement(context.Background(), appinventory.MovementInput{
		InventoryID: "item-1",
		Type:        entity.MovementTypeAdjustment,
		Quantity:    decimal.Zero,
		UserID:      "user-1",
	})
	require.NoError(t, err)
	assert.True(t, resp.NewStock.IsZero())
}

// Un conteo negativo no es un error de entrada: el ítem se resuelve primero
// (not-found gana ante un ID malo) y después cae en el chequeo de stock.
func TestRegisterMovement_AjusteNegativo(t *testing.T) {
	store := newMemStore(testItem("item-1", "10"))
	uc := appinventory.NewRegisterMovementUseCase(&memTxRunner{s: store})

	_, err := uc.RegisterMovement(context.Background(), appinventory.MovementInput{
		InventoryID: "item-1",
		Type:        entity.MovementTypeAdjustment,
		Quantity:    d("-3"),
		UserID:      "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, store.items["item-1"].CurrentStock.Equal(d("10")), "el stock no cambió")
	assert.Empty(t, store.movements)

	_, err = uc.RegisterMovement(context.Background(), appinventory.MovementInput{
		InventoryID: "no-existe",
		Type:        entity.MovementTypeAdjustment,
		Quantity:    d("-3"),
		UserID:      "user-1",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "el ítem inexistente gana al chequeo de stock")
}

func TestRegisterMovement_TransferDescuentaComoSalida(t *testing.T) {
	store := newMemStore(testItem("item-1", "10"))
	uc := appinventory.NewRegisterMovementUseCase(&memTxRunner{s: store})

	resp, err := uc.RegisterMovement(context.Background(), appinventory.MovementInput{
		InventoryID: "item-1",
		Type:        entity.MovementTypeTransfer,
		Quantity:    d("4"),
		UserID:      "user-1",
	})
	require.NoError(t, err)
	assert.True(t, resp.NewStock.Equal(d("6")))
	require.Len(t, store.movements, 1)
	assert.Equal(t, entity.MovementTypeTransfer, store.movements[0].Type)
	assert.True(t, store.movements[0].Quantity.Equal(d("-4")))
}

func TestRegisterMovement_Validaciones(t *testing.T) {
	store := newMemStore(testItem("item-1", "10"))
	uc := appinventory.NewRegisterMovementUseCase(&memTxRunner{s: store})
	ctx := context.Background()

	cases := []struct {
		name  string
		input appinventory.MovementInput
	}{
		{"tipo desconocido", appinventory.MovementInput{InventoryID: "item-1", Type: "refund", Quantity: d("1")}},
		{"cantidad cero en salida", appinventory.MovementInput{InventoryID: "item-1", Type: entity.MovementTypeOut, Quantity: decimal.Zero}},
		{"sin item", appinventory.MovementInput{Type: entity.MovementTypeIn, Quantity: d("1")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.input.UserID = "user-1"
			_, err := uc.RegisterMovement(ctx, tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, store.movements, "ninguna validación fallida llega al libro")
}

func TestRegisterMovement_ItemInexistenteOInactivo(t *testing.T) {
	inactive := testItem("item-2", "5")
	inactive.Active = false
	store := newMemStore(inactive)
	uc := appinventory.NewRegisterMovementUseCase(&memTxRunner{s: store})

	_, err := uc.RegisterMovement(context.Background(), appinventory.MovementInput{
		InventoryID: "no-existe", Type: entity.MovementTypeIn, Quantity: d("1"), UserID: "u",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.RegisterMovement(context.Background(), appinventory.MovementInput{
		InventoryID: "item-2", Type: entity.MovementTypeIn, Quantity: d("1"), UserID: "u",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "un ítem inactivo no acepta movimientos")
}

func TestRegisterMovement_RollbackSiFallaElLibro(t *testing.T) {
	store := newMemStore(testItem("item-1", "10"))
	uc := appinventory.NewRegisterMovementUseCase(&memTxRunner{s: store, failMovRepo: true})

	_, err := uc.RegisterMovement(context.Background(), appinventory.MovementInput{
		InventoryID: "item-1",
		Type:        entity.MovementTypeIn,
		Quantity:    d("5"),
		UserID:      "user-1",
	})
	require.Error(t, err)

	// La tx se revirtió completa: el stock no cambió.
	assert.True(t, store.items["item-1"].CurrentStock.Equal(d("10")))
	assert.Empty(t, store.movements)
}
