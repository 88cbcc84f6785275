package sales_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Backoffice-api/internal/application/dto"
	"github.com/jhoicas/Backoffice-api/internal/application/sales"
	"github.com/jhoicas/Backoffice-api/internal/domain"
	"github.com/jhoicas/Backoffice-api/internal/domain/entity"
	"github.com/jhoicas/Backoffice-api/internal/domain/repository"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con semántica transaccional
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	items      map[string]*entity.InventoryItem
	movements  []*entity.StockMovement
	sales      map[string]*entity.Sale
	saleItems  []*entity.SaleItem
	numbers    map[string]bool // sale_number -> UNIQUE
	lockOrder  []string        // IDs en el orden en que se pidieron los locks de fila
	failCreate int             // fuerza N violaciones de unicidad consecutivas
	failItems  bool            // fuerza el fallo de CreateItem para probar rollback
}

func newMemStore(items ...*entity.InventoryItem) *memStore {
	s := &memStore{
		items:   make(map[string]*entity.InventoryItem),
		sales:   make(map[string]*entity.Sale),
		numbers: make(map[string]bool),
	}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

func (s *memStore) clone() *memStore {
	c := &memStore{
		items:      make(map[string]*entity.InventoryItem, len(s.items)),
		sales:      make(map[string]*entity.Sale, len(s.sales)),
		numbers:    make(map[string]bool, len(s.numbers)),
		failCreate: s.failCreate,
		failItems:  s.failItems,
	}
	for id, it := range s.items {
		copied := *it
		c.items[id] = &copied
	}
	for id, sl := range s.sales {
		copied := *sl
		c.sales[id] = &copied
	}
	for n := range s.numbers {
		c.numbers[n] = true
	}
	c.movements = append(c.movements, s.movements...)
	c.saleItems = append(c.saleItems, s.saleItems...)
	c.lockOrder = append(c.lockOrder, s.lockOrder...)
	return c
}

type memInvRepo struct{ s *memStore }

func (r *memInvRepo) Create(item *entity.InventoryItem) error { r.s.items[item.ID] = item; return nil }
func (r *memInvRepo) GetByID(id string) (*entity.InventoryItem, error) {
	return r.s.items[id], nil
}
func (r *memInvRepo) GetByIDForUpdate(id string) (*entity.InventoryItem, error) {
	r.s.lockOrder = append(r.s.lockOrder, id)
	return r.s.items[id], nil
}
func (r *memInvRepo) GetBySKU(sku string) (*entity.InventoryItem, error) { return nil, nil }
func (r *memInvRepo) List(search string, limit, offset int) ([]*entity.InventoryItem, error) {
	return nil, nil
}
func (r *memInvRepo) Update(item *entity.InventoryItem) error { return nil }
func (r *memInvRepo) UpdateStock(id string, newStock decimal.Decimal) error {
	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.CurrentStock = newStock
	return nil
}
func (r *memInvRepo) Deactivate(id string) error { return nil }

type memMovRepo struct{ s *memStore }

func (r *memMovRepo) Create(m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = fmt.Sprintf("mov-%d", len(r.s.movements)+1)
	}
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *memMovRepo) GetByID(id string) (*entity.StockMovement, error) { return nil, nil }
func (r *memMovRepo) ListByItem(inventoryID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (r *memMovRepo) List(from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.s.movements, nil
}

type memSaleRepo struct{ s *memStore }

func (r *memSaleRepo) Create(sale *entity.Sale) error {
	if r.s.failCreate > 0 {
		r.s.failCreate--
		return domain.ErrDuplicate
	}
	if r.s.numbers[sale.SaleNumber] {
		return domain.ErrDuplicate
	}
	r.s.numbers[sale.SaleNumber] = true
	r.s.sales[sale.ID] = sale
	return nil
}

func (r *memSaleRepo) CreateItem(item *entity.SaleItem) error {
	if r.s.failItems {
		return errors.New("disco lleno")
	}
	r.s.saleItems = append(r.s.saleItems, item)
	return nil
}

func (r *memSaleRepo) GetByID(id string) (*entity.Sale, error) { return r.s.sales[id], nil }
func (r *memSaleRepo) GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	for _, it := range r.s.saleItems {
		if it.SaleID == saleID {
			out = append(out, it)
		}
	}
	return out, nil
}
func (r *memSaleRepo) CountByDay(day time.Time) (int64, error) {
	return int64(len(r.s.sales)), nil
}
func (r *memSaleRepo) List(filter repository.SaleFilter) ([]*entity.Sale, error) { return nil, nil }
func (r *memSaleRepo) UpdatePaymentStatus(id, status string) error {
	sale, ok := r.s.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	sale.PaymentStatus = status
	return nil
}

type memTxRunner struct{ s *memStore }

func (r *memTxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	invRepo repository.InventoryRepository,
	saleRepo repository.SaleRepository,
) error) error {
	work := r.s.clone()
	err := fn(&memMovRepo{s: work}, &memInvRepo{s: work}, &memSaleRepo{s: work})
	if err != nil {
		// fallas consumidas por el intento deben sobrevivir al rollback
		r.s.failCreate = work.failCreate
		return err
	}
	*r.s = *work
	return nil
}

func testItem(id, stock, price string) *entity.InventoryItem {
	return &entity.InventoryItem{
		ID:           id,
		Name:         id,
		Unit:         "und",
		CurrentStock: d(stock),
		CostPrice:    d("5"),
		SellingPrice: d(price),
		Active:       true,
	}
}

func cartLine(id, qty, price string) dto.SaleLineRequest {
	return dto.SaleLineRequest{InventoryID: id, Quantity: d(qty), UnitPrice: d(price)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CreateSale
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_VentaSimple(t *testing.T) {
	store := newMemStore(
		testItem("cafe", "20", "14.90"),
		testItem("pan", "30", "2.50"),
	)
	uc := sales.NewCreateSaleUseCase(&memTxRunner{s: store}, d("0.10"))

	resp, err := uc.CreateSale(context.Background(), "user-1", dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			cartLine("cafe", "2", "14.90"),
			cartLine("pan", "4", "2.50"),
		},
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	// subtotal = 2*14.90 + 4*2.50 = 39.80; impuesto 10% = 3.98; total 43.78
	assert.True(t, resp.Subtotal.Equal(d("39.80")), "subtotal: %s", resp.Subtotal)
	assert.True(t, resp.TaxAmount.Equal(d("3.980")), "impuesto: %s", resp.TaxAmount)
	assert.True(t, resp.TotalAmount.Equal(d("43.78")), "total: %s", resp.TotalAmount)
	assert.Equal(t, entity.PaymentStatusCompleted, resp.PaymentStatus)
	assert.Regexp(t, `^SALE-\d{8}-0001$`, resp.SaleNumber)
	require.Len(t, resp.Items, 2)

	// Stock descontado y libro con una fila `out` por línea.
	assert.True(t, store.items["cafe"].CurrentStock.Equal(d("18")))
	assert.True(t, store.items["pan"].CurrentStock.Equal(d("26")))
	require.Len(t, store.movements, 2)
	for _, m := range store.movements {
		assert.Equal(t, entity.MovementTypeOut, m.Type)
		assert.Equal(t, resp.SaleNumber, m.ReferenceNumber)
		assert.True(t, m.Quantity.IsNegative())
	}
}

func TestCreateSale_DescuentoPuedeDejarTotalNegativo(t *testing.T) {
	store := newMemStore(testItem("cafe", "20", "14.90"))
	uc := sales.NewCreateSaleUseCase(&memTxRunner{s: store}, d("0.10"))

	resp, err := uc.CreateSale(context.Background(), "user-1", dto.CreateSaleRequest{
		Items:          []dto.SaleLineRequest{cartLine("cafe", "1", "10.00")},
		PaymentMethod:  entity.PaymentMethodCard,
		DiscountAmount: d("50.00"),
	})
	require.NoError(t, err)
	// La fórmula se aplica tal cual: 10 + 1 - 50 = -39. El total negativo no se rechaza.
	assert.True(t, resp.TotalAmount.Equal(d("-39")), "total: %s", resp.TotalAmount)
}

func TestCreateSale_ConsecutivoPorDia(t *testing.T) {
	store := newMemStore(testItem("cafe", "100", "14.90"))
	uc := sales.NewCreateSaleUseCase(&memTxRunner{s: store}, d("0.10"))
	ctx := context.Background()

	first, err := uc.CreateSale(ctx, "u", dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{cartLine("cafe", "1", "14.90")}, PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)
	second, err := uc.CreateSale(ctx, "u", dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{cartLine("cafe", "1", "14.90")}, PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	today := time.Now().Format("20060102")
	assert.Equal(t, fmt.Sprintf("SALE-%s-0001", today), first.SaleNumber)
	assert.Equal(t, fmt.Sprintf("SALE-%s-0002", today), second.SaleNumber)
}

func TestCreateSale_StockInsuficienteNoMutaNada(t *testing.T) {
	store := newMemStore(
		testItem("cafe", "20", "14.90"),
		testItem("pan", "1", "2.50"),
	)
	uc := sales.NewCreateSaleUseCase(&memTxRunner{s: store}, d("0.10"))

	// La primera línea tiene stock de sobra; la segunda no. Nada debe cambiar.
	_, err := uc.CreateSale(context.Background(), "u", dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			cartLine("cafe", "2", "14.90"),
			cartLine("pan", "5", "2.50"),
		},
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	assert.True(t, store.items["cafe"].CurrentStock.Equal(d("20")), "la línea válida tampoco se descontó")
	assert.True(t, store.items["pan"].CurrentStock.Equal(d("1")))
	assert.Empty(t, store.movements)
	assert.Empty(t, store.sales)
}

func TestCreateSale_LineasRepetidasSumanContraElMismoStock(t *testing.T) {
	store := newMemStore(testItem("cafe", "5", "14.90"))
	uc := sales.NewCreateSaleUseCase(&memTxRunner{s: store}, d("0.10"))

	// 3 + 3 = 6 > 5: la segunda línea del mismo ítem no puede ignorar la primera.
	_, err := uc.CreateSale(context.Background(), "u", dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			cartLine("cafe", "3", "14.90"),
			cartLine("cafe", "3", "14.90"),
		},
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.True(t, store.items["cafe"].CurrentStock.Equal(d("5")))
}

func TestCreateSale_LineasRepetidasValidasDescuentanAcumulado(t *testing.T) {
	store := newMemStore(testItem("cafe", "10", "14.90"))
	uc := sales.NewCreateSaleUseCase(&memTxRunner{s: store}, d("0.10"))

	resp, err := uc.CreateSale(context.Background(), "u", dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			cartLine("cafe", "3", "14.90"),
			cartLine("cafe", "3", "14.90"),
		},
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.True(t, store.items["cafe"].CurrentStock.Equal(d("4")))
	require.Len(t, store.movements, 2)
	// Las filas del libro encadenan previous/new: 10→7 y 7→4.
	assert.True(t, store.movements[0].PreviousStock.Equal(d("10")))
	assert.True(t, store.movements[0].NewStock.Equal(d("7")))
	assert.True(t, store.movements[1].PreviousStock.Equal(d("7")))
	assert.True(t, store.movements[1].NewStock.Equal(d("4")))
	require.Len(t, resp.Items, 2)
}

func TestCreateSale_ItemInexistente(t *testing.T) {
	store := newMemStore(testItem("cafe", "20", "14.90"))
	uc := sales.NewCreateSaleUseCase(&memTxRunner{s: store}, d("0.10"))

	_, err := uc.CreateSale(context.Background(), "u", dto.CreateSaleRequest{
		Items:         []dto.SaleLineRequest{cartLine("fantasma", "1", "1.00")},
		PaymentMethod: entity.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSale_Validaciones(t *testing.T) {
	store := newMemStore(testItem("cafe", "20", "14.90"))
	uc := sales.NewCreateSaleUseCase(&memTxRunner{s: store}, d("0.10"))
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.CreateSaleRequest
	}{
		{"carrito vacío", dto.CreateSaleRequest{PaymentMethod: entity.PaymentMethodCash}},
		{"método de pago desconocido", dto.CreateSaleRequest{
			Items: []dto.SaleLineRequest{cartLine("cafe", "1", "1")}, PaymentMethod: "cheque",
		}},
		{"descuento negativo", dto.CreateSaleRequest{
			Items: []dto.SaleLineRequest{cartLine("cafe", "1", "1")}, PaymentMethod: entity.PaymentMethodCash,
			DiscountAmount: d("-1"),
		}},
		{"cantidad cero", dto.CreateSaleRequest{
			Items: []dto.SaleLineRequest{cartLine("cafe", "0", "1")}, PaymentMethod: entity.PaymentMethodCash,
		}},
		{"precio negativo", dto.CreateSaleRequest{
			Items: []dto.SaleLineRequest{cartLine("cafe", "1", "-1")}, PaymentMethod: entity.PaymentMethodCash,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateSale(ctx, "u", tc.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateSale_ReintentaUnaVezAnteNumeroDuplicado(t *testing.T) {
	store := newMemStore(testItem("cafe", "20", "14.90"))
	store.failCreate = 1 // la primera inserción choca con la constraint UNIQUE
	uc := sales.NewCreateSaleUseCase(&memTxRunner{s: store}, d("0.10"))

	resp, err := uc.CreateSale(context.Background(), "u", dto.CreateSaleRequest{
		Items:         []dto.SaleLineRequest{cartLine("cafe", "1", "14.90")},
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err, "una sola colisión se resuelve con el reintento")
	assert.NotEmpty(t, resp.SaleNumber)
	assert.True(t, store.items["cafe"].CurrentStock.Equal(d("19")))
}

func TestCreateSale_DobleColisionDevuelveConflict(t *testing.T) {
	store := newMemStore(testItem("cafe", "20", "14.90"))
	store.failCreate = 2
	uc := sales.NewCreateSaleUseCase(&memTxRunner{s: store}, d("0.10"))

	_, err := uc.CreateSale(context.Background(), "u", dto.CreateSaleRequest{
		Items:         []dto.SaleLineRequest{cartLine("cafe", "1", "14.90")},
		PaymentMethod: entity.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, store.items["cafe"].CurrentStock.Equal(d("20")), "nada se descontó")
}

func TestCreateSale_FalloPersistiendoLineasRevierteTodo(t *testing.T) {
	store := newMemStore(testItem("cafe", "20", "14.90"))
	store.failItems = true
	uc := sales.NewCreateSaleUseCase(&memTxRunner{s: store}, d("0.10"))

	_, err := uc.CreateSale(context.Background(), "u", dto.CreateSaleRequest{
		Items:         []dto.SaleLineRequest{cartLine("cafe", "1", "14.90")},
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.Error(t, err)
	assert.Empty(t, store.sales, "la cabecera no sobrevive al rollback")
	assert.Empty(t, store.movements)
	assert.True(t, store.items["cafe"].CurrentStock.Equal(d("20")))
}

func TestCreateSale_TasaDeImpuestoConfigurable(t *testing.T) {
	store := newMemStore(testItem("cafe", "20", "10.00"))
	uc := sales.NewCreateSaleUseCase(&memTxRunner{s: store}, d("0.19"))

	resp, err := uc.CreateSale(context.Background(), "u", dto.CreateSaleRequest{
		Items:         []dto.SaleLineRequest{cartLine("cafe", "1", "10.00")},
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.True(t, resp.TaxAmount.Equal(d("1.9")), "impuesto con tasa 19%%: %s", resp.TaxAmount)
	assert.True(t, resp.TotalAmount.Equal(d("11.9")))
}

func TestUpdatePaymentStatus(t *testing.T) {
	store := newMemStore(testItem("cafe", "20", "14.90"))
	create := sales.NewCreateSaleUseCase(&memTxRunner{s: store}, d("0.10"))
	queries := sales.NewSaleQueryUseCase(&memSaleRepo{s: store})

	sale, err := create.CreateSale(context.Background(), "u", dto.CreateSaleRequest{
		Items:         []dto.SaleLineRequest{cartLine("cafe", "1", "14.90")},
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.Equal(t, entity.PaymentStatusCompleted, sale.PaymentStatus)

	resp, err := queries.UpdatePaymentStatus(context.Background(), sale.ID, entity.PaymentStatusRefunded)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusRefunded, resp.PaymentStatus)
	assert.Equal(t, entity.PaymentStatusRefunded, store.sales[sale.ID].PaymentStatus)

	_, err = queries.UpdatePaymentStatus(context.Background(), sale.ID, "paid")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = queries.UpdatePaymentStatus(context.Background(), "no-existe", entity.PaymentStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Dos ventas por la última unidad: la primera la toma, la segunda falla con el
// error tipado y el stock termina en cero, nunca negativo.
func TestCreateSale_UltimaUnidadSoloSeVendeUnaVez(t *testing.T) {
	store := newMemStore(testItem("cafe", "1", "14.90"))
	uc := sales.NewCreateSaleUseCase(&memTxRunner{s: store}, d("0.10"))

	first, err := uc.CreateSale(context.Background(), "caja-1", dto.CreateSaleRequest{
		Items:         []dto.SaleLineRequest{cartLine("cafe", "1", "14.90")},
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)
	require.NotNil(t, first)

	_, err = uc.CreateSale(context.Background(), "caja-2", dto.CreateSaleRequest{
		Items:         []dto.SaleLineRequest{cartLine("cafe", "1", "14.90")},
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Available.IsZero())

	assert.True(t, store.items["cafe"].CurrentStock.IsZero(), "el stock queda en cero, nunca negativo")
	assert.Len(t, store.sales, 1, "solo la primera venta existe")
	assert.Len(t, store.movements, 1, "una sola fila de salida en el libro")
}

// Con stock N y ventas de q unidades, a lo sumo floor(N/q) prosperan.
func TestCreateSale_StockLimitaLasVentasQueProsperan(t *testing.T) {
	store := newMemStore(testItem("cafe", "5", "10.00"))
	uc := sales.NewCreateSaleUseCase(&memTxRunner{s: store}, d("0.10"))

	successes := 0
	for i := 0; i < 3; i++ {
		_, err := uc.CreateSale(context.Background(), "caja", dto.CreateSaleRequest{
			Items:         []dto.SaleLineRequest{cartLine("cafe", "2", "10.00")},
			PaymentMethod: entity.PaymentMethodCash,
		})
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	}

	// floor(5/2) = 2 ventas; queda la unidad suelta.
	assert.Equal(t, 2, successes)
	assert.True(t, store.items["cafe"].CurrentStock.Equal(d("1")))
	assert.Len(t, store.movements, 2)
}

// Los locks de fila se piden en orden estable de ID, no en el orden del
// carrito, para que dos carritos opuestos no puedan bloquearse en cruz.
func TestCreateSale_BloqueaFilasEnOrdenEstable(t *testing.T) {
	store := newMemStore(
		testItem("papa", "10", "1.00"),
		testItem("azucar", "10", "2.00"),
		testItem("cafe", "10", "14.90"),
	)
	uc := sales.NewCreateSaleUseCase(&memTxRunner{s: store}, d("0.10"))

	_, err := uc.CreateSale(context.Background(), "caja", dto.CreateSaleRequest{
		Items: []dto.SaleLineRequest{
			cartLine("papa", "1", "1.00"),
			cartLine("cafe", "1", "14.90"),
			cartLine("azucar", "1", "2.00"),
			cartLine("papa", "1", "1.00"), // línea repetida: un solo lock
		},
		PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"azucar", "cafe", "papa"}, store.lockOrder)
}
