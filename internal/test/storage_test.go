package test

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/pashagolub/pgxmock"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/plateful/plateful/internal"
	"github.com/plateful/plateful/internal/model"
	"github.com/plateful/plateful/internal/storage"
)

var _ = Describe("Store", func() {
	var (
		mock  pgxmock.PgxConnIface
		store *storage.Store
	)
	BeforeEach(func() {
		var err error
		mock, err = pgxmock.NewConn()
		Expect(err).ShouldNot(HaveOccurred())

		logger, err := zap.NewDevelopment()
		Expect(err).ShouldNot(HaveOccurred())

		store = storage.NewStore(mock, logger.Sugar())
	})
	AfterEach(func() {
		err := mock.ExpectationsWereMet()
		Expect(err).ShouldNot(HaveOccurred())
	})
	Context("Order numbers", func() {
		It("NextOrderSequence without error", func() {
			date := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

			mock.ExpectQuery("INSERT INTO order_counters").
				WithArgs(int64(1), "2025-03-14").
				WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(41))

			seq, err := store.NextOrderSequence(context.Background(), 1, date)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(seq).Should(Equal(41))
		})
		It("NextOrderSequence with error", func() {
			date := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

			mock.ExpectQuery("INSERT INTO order_counters").
				WithArgs(int64(1), "2025-03-14").
				WillReturnError(errors.New("some error"))

			_, err := store.NextOrderSequence(context.Background(), 1, date)
			Expect(err).Should(MatchError(internal.ErrStoreUnavailable))
		})
	})
	Context("Orders", func() {
		It("CreateOrder without error", func() {
			now := time.Now().UTC()
			order := model.Order{
				BusinessID:     1,
				OrderNumber:    "20250314-0001",
				OrderType:      model.OrderTypeDineIn,
				Status:         model.OrderStatusPending,
				Subtotal:       d("10.00"),
				TaxAmount:      d("0.80"),
				TipAmount:      d("0.00"),
				DeliveryFee:    d("0.00"),
				DiscountAmount: d("0.00"),
				TotalAmount:    d("10.80"),
				PaymentStatus:  model.PaymentStatusPending,
				Items: []model.OrderItem{
					{MenuItemID: 2, Name: "Lemonade", UnitPrice: d("10.00"), Quantity: 1,
						Modifiers: []model.OrderItemModifier{}, ModifiersTotal: d("0.00"), LineTotal: d("10.00")},
				},
				CreatedAt: now,
				UpdatedAt: now,
			}

			mock.ExpectBegin()
			mock.ExpectQuery("INSERT INTO orders").
				WithArgs(order.BusinessID, order.CustomerID, order.OrderNumber, order.OrderType, order.Status,
					order.Subtotal, order.TaxAmount, order.TipAmount, order.DeliveryFee, order.DiscountAmount,
					order.TotalAmount, order.PaymentStatus, order.CreatedAt, order.UpdatedAt).
				WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))
			mock.ExpectQuery("INSERT INTO order_items").
				WithArgs(int64(5), int64(2), "Lemonade", d("10.00"), 1, "[]", d("0.00"), d("10.00")).
				WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(21)))
			mock.ExpectExec("INSERT INTO order_status_log (.+) VALUES (.+)").
				WithArgs(int64(5), model.OrderStatusPending, nil, now).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))
			mock.ExpectCommit()

			err := store.CreateOrder(context.Background(), &order)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(order.ID).Should(Equal(int64(5)))
			Expect(order.Items[0].ID).Should(Equal(int64(21)))
		})
		It("CreateOrder rolls back when an item insert fails", func() {
			now := time.Now().UTC()
			order := model.Order{
				BusinessID: 1, OrderNumber: "20250314-0002", OrderType: model.OrderTypeTakeout,
				Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending,
				Items:     []model.OrderItem{{MenuItemID: 3, Name: "Soup", Quantity: 1, Modifiers: []model.OrderItemModifier{}}},
				CreatedAt: now, UpdatedAt: now,
			}

			mock.ExpectBegin()
			mock.ExpectQuery("INSERT INTO orders").
				WithArgs(order.BusinessID, order.CustomerID, order.OrderNumber, order.OrderType, order.Status,
					order.Subtotal, order.TaxAmount, order.TipAmount, order.DeliveryFee, order.DiscountAmount,
					order.TotalAmount, order.PaymentStatus, order.CreatedAt, order.UpdatedAt).
				WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(6)))
			mock.ExpectQuery("INSERT INTO order_items").
				WithArgs(int64(6), int64(3), "Soup", order.Items[0].UnitPrice, 1, "[]",
					order.Items[0].ModifiersTotal, order.Items[0].LineTotal).
				WillReturnError(errors.New("some error"))
			mock.ExpectRollback()

			err := store.CreateOrder(context.Background(), &order)
			Expect(err).Should(HaveOccurred())
		})
		It("CreateOrder with error duplicate order number", func() {
			now := time.Now().UTC()
			order := model.Order{
				BusinessID: 1, OrderNumber: "20250314-0003", OrderType: model.OrderTypeTakeout,
				Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending,
				CreatedAt: now, UpdatedAt: now,
			}

			mock.ExpectBegin()
			mock.ExpectQuery("INSERT INTO orders").
				WithArgs(order.BusinessID, order.CustomerID, order.OrderNumber, order.OrderType, order.Status,
					order.Subtotal, order.TaxAmount, order.TipAmount, order.DeliveryFee, order.DiscountAmount,
					order.TotalAmount, order.PaymentStatus, order.CreatedAt, order.UpdatedAt).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "orders_number_per_business"})
			mock.ExpectRollback()

			err := store.CreateOrder(context.Background(), &order)
			Expect(err).Should(MatchError(internal.ErrConflict))
		})
		It("GetOrder without error", func() {
			created := time.Now().UTC()
			cid := int64(3)

			orderRows := pgxmock.NewRows([]string{
				"id", "business_id", "customer_id", "order_number", "order_type", "status",
				"subtotal", "tax_amount", "tip_amount", "delivery_fee", "discount_amount", "total_amount", "payment_status",
				"confirmed_at", "preparing_at", "ready_at", "completed_at", "cancelled_at", "cancellation_reason",
				"created_at", "updated_at",
			}).AddRow(
				int64(5), int64(1), &cid, "20250314-0042", model.OrderTypeTakeout, model.OrderStatusPending,
				d("25.00"), d("2.00"), d("3.00"), d("0.00"), d("0.00"), d("30.00"), model.PaymentStatusPending,
				nil, nil, nil, nil, nil, nil,
				created, created,
			)
			mock.ExpectQuery("FROM orders WHERE id = \\$1 AND business_id = \\$2").
				WithArgs(int64(5), int64(1)).WillReturnRows(orderRows)

			itemRows := pgxmock.NewRows([]string{
				"id", "order_id", "menu_item_id", "name", "unit_price", "quantity", "modifiers", "modifiers_total", "line_total",
			}).AddRow(
				int64(11), int64(5), int64(7), "Margherita", d("12.50"), 2,
				[]byte(`[{"name":"extra cheese","price":1.5}]`), d("1.50"), d("25.00"),
			)
			mock.ExpectQuery("SELECT (.+) FROM order_items WHERE order_id = \\$1 ORDER BY id").
				WithArgs(int64(5)).WillReturnRows(itemRows)

			order, err := store.GetOrder(context.Background(), 1, 5)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(order.ID).Should(Equal(int64(5)))
			Expect(order.CustomerID).ShouldNot(BeNil())
			Expect(*order.CustomerID).Should(Equal(int64(3)))
			Expect(order.ConfirmedAt).Should(BeNil())
			Expect(order.Items).Should(HaveLen(1))
			Expect(order.Items[0].Modifiers).Should(HaveLen(1))
			Expect(order.Items[0].Modifiers[0].Name).Should(Equal("extra cheese"))
			Expect(order.Items[0].LineTotal.StringFixed(2)).Should(Equal("25.00"))
		})
		It("GetOrder with error not found", func() {
			mock.ExpectQuery("FROM orders WHERE id = \\$1 AND business_id = \\$2").
				WithArgs(int64(404), int64(1)).WillReturnError(pgx.ErrNoRows)

			_, err := store.GetOrder(context.Background(), 1, 404)
			Expect(err).Should(MatchError(internal.ErrNotFound))
		})
		It("AdvanceOrderStatus wins the flip", func() {
			at := time.Now().UTC()

			mock.ExpectExec("UPDATE orders").
				WithArgs(model.OrderStatusConfirmed, at, (*string)(nil), int64(5), model.OrderStatusPending).
				WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			mock.ExpectExec("INSERT INTO order_status_log (.+) VALUES (.+)").
				WithArgs(int64(5), model.OrderStatusConfirmed, (*string)(nil), at).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))

			won, err := store.AdvanceOrderStatus(context.Background(), 5, model.OrderStatusPending, model.OrderStatusConfirmed, at, nil)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(won).Should(BeTrue())
		})
		It("AdvanceOrderStatus reports a lost race", func() {
			at := time.Now().UTC()

			mock.ExpectExec("UPDATE orders").
				WithArgs(model.OrderStatusCompleted, at, (*string)(nil), int64(5), model.OrderStatusReady).
				WillReturnResult(pgxmock.NewResult("UPDATE", 0))

			won, err := store.AdvanceOrderStatus(context.Background(), 5, model.OrderStatusReady, model.OrderStatusCompleted, at, nil)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(won).Should(BeFalse())
		})
		It("AdvanceOrderStatus keeps the reason on the row only for cancellations", func() {
			at := time.Now().UTC()
			reason := "out of stock"

			mock.ExpectExec("UPDATE orders").
				WithArgs(model.OrderStatusCancelled, at, &reason, int64(8), model.OrderStatusPending).
				WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			mock.ExpectExec("INSERT INTO order_status_log (.+) VALUES (.+)").
				WithArgs(int64(8), model.OrderStatusCancelled, &reason, at).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))

			won, err := store.AdvanceOrderStatus(context.Background(), 8, model.OrderStatusPending, model.OrderStatusCancelled, at, &reason)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(won).Should(BeTrue())
		})
		It("a reason on a normal move lands only in the log", func() {
			at := time.Now().UTC()
			reason := "rushed by the host"

			mock.ExpectExec("UPDATE orders").
				WithArgs(model.OrderStatusPreparing, at, (*string)(nil), int64(8), model.OrderStatusConfirmed).
				WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			mock.ExpectExec("INSERT INTO order_status_log (.+) VALUES (.+)").
				WithArgs(int64(8), model.OrderStatusPreparing, &reason, at).
				WillReturnResult(pgxmock.NewResult("INSERT", 1))

			won, err := store.AdvanceOrderStatus(context.Background(), 8, model.OrderStatusConfirmed, model.OrderStatusPreparing, at, &reason)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(won).Should(BeTrue())
		})
		It("UpdateOrderPayment with error not found", func() {
			mock.ExpectExec("UPDATE orders SET payment_status = \\$1, updated_at = \\$2 WHERE id = \\$3 AND business_id = \\$4").
				WithArgs(model.PaymentStatusPaid, pgxmock.AnyArg(), int64(9), int64(1)).
				WillReturnResult(pgxmock.NewResult("UPDATE", 0))

			err := store.UpdateOrderPayment(context.Background(), 1, 9, model.PaymentStatusPaid)
			Expect(err).Should(MatchError(internal.ErrNotFound))
		})
		It("GetOrderStatusHistory without error", func() {
			at := time.Now().UTC()
			reason := "customer called to cancel"

			rows := pgxmock.NewRows([]string{"id", "order_id", "status", "reason", "changed_at"}).
				AddRow(int64(1), int64(5), model.OrderStatusPending, (*string)(nil), at).
				AddRow(int64(2), int64(5), model.OrderStatusCancelled, &reason, at)
			mock.ExpectQuery("SELECT (.+) FROM order_status_log WHERE order_id = \\$1 ORDER BY id").
				WithArgs(int64(5)).WillReturnRows(rows)

			history, err := store.GetOrderStatusHistory(context.Background(), 5)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(history).Should(HaveLen(2))
			Expect(history[0].Reason).Should(BeNil())
			Expect(history[1].Reason).ShouldNot(BeNil())
			Expect(*history[1].Reason).Should(Equal(reason))
		})
	})
	Context("Transactions", func() {
		It("WithinTx commits when fn succeeds", func() {
			at := time.Now().UTC()
			acc := model.LoyaltyAccount{ID: 3, PointsBalance: 120, LifetimeEarned: 150, LifetimeRedeemed: 30, Tier: model.TierSilver, UpdatedAt: at}

			mock.ExpectBegin()
			mock.ExpectExec("UPDATE loyalty_accounts").
				WithArgs(int64(120), int64(150), int64(30), model.TierSilver, at, int64(3)).
				WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			mock.ExpectCommit()

			err := store.WithinTx(context.Background(), func(st internal.IStore) error {
				return st.SaveLoyaltyAccount(context.Background(), &acc)
			})
			Expect(err).ShouldNot(HaveOccurred())
		})
		It("WithinTx rolls everything back on error", func() {
			boom := errors.New("award failed")

			mock.ExpectBegin()
			mock.ExpectRollback()

			err := store.WithinTx(context.Background(), func(st internal.IStore) error {
				return boom
			})
			Expect(err).Should(MatchError(boom))
		})
	})
	Context("Loyalty", func() {
		It("GetLoyaltySettings without error", func() {
			updated := time.Now().UTC()

			rows := pgxmock.NewRows([]string{
				"business_id", "is_enabled", "points_per_dollar", "minimum_spend",
				"silver_threshold", "gold_threshold", "platinum_threshold", "updated_at",
			}).AddRow(
				int64(1), true, int64(2), decimal.NullDecimal{Decimal: d("15.00"), Valid: true},
				i64(100), i64(250), (*int64)(nil), updated,
			)
			mock.ExpectQuery("SELECT (.+) FROM loyalty_settings WHERE business_id = \\$1").
				WithArgs(int64(1)).WillReturnRows(rows)

			cfg, err := store.GetLoyaltySettings(context.Background(), 1)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(cfg.IsEnabled).Should(BeTrue())
			Expect(cfg.PointsPerDollar).Should(Equal(int64(2)))
			Expect(cfg.MinimumSpend).ShouldNot(BeNil())
			Expect(cfg.MinimumSpend.StringFixed(2)).Should(Equal("15.00"))
			Expect(*cfg.TierThresholds.Silver).Should(Equal(int64(100)))
			Expect(*cfg.TierThresholds.Gold).Should(Equal(int64(250)))
			Expect(cfg.TierThresholds.Platinum).Should(BeNil())
		})
		It("GetLoyaltySettings with error missing row", func() {
			mock.ExpectQuery("SELECT (.+) FROM loyalty_settings WHERE business_id = \\$1").
				WithArgs(int64(9)).WillReturnError(pgx.ErrNoRows)

			_, err := store.GetLoyaltySettings(context.Background(), 9)
			Expect(err).Should(MatchError(internal.ErrNotFound))
		})
		It("EnsureLoyaltyAccount without error", func() {
			created := time.Now().UTC()

			mock.ExpectExec("INSERT INTO loyalty_accounts").
				WithArgs(int64(1), int64(3), model.TierBronze).
				WillReturnResult(pgxmock.NewResult("INSERT", 0))
			mock.ExpectQuery("SELECT (.+) FROM loyalty_accounts WHERE business_id = \\$1 AND customer_id = \\$2").
				WithArgs(int64(1), int64(3)).
				WillReturnRows(pgxmock.NewRows([]string{
					"id", "business_id", "customer_id", "points_balance", "lifetime_earned", "lifetime_redeemed", "tier", "created_at", "updated_at",
				}).AddRow(int64(7), int64(1), int64(3), int64(0), int64(0), int64(0), model.TierBronze, created, created))

			acc, err := store.EnsureLoyaltyAccount(context.Background(), 1, 3)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(acc.ID).Should(Equal(int64(7)))
			Expect(acc.Tier).Should(Equal(model.TierBronze))
		})
		It("AppendEarnedTransaction without error", func() {
			at := time.Now().UTC()
			oid := int64(5)
			txn := model.LoyaltyTransaction{
				AccountID: 3, PointsDelta: 23, BalanceAfter: 23, OrderID: &oid,
				Description: "earned on order 20250314-0042", CreatedAt: at,
			}

			mock.ExpectQuery("INSERT INTO loyalty_transactions").
				WithArgs(int64(3), model.LoyaltyEarned, int64(23), int64(23), &oid, txn.Description, at).
				WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(77)))

			inserted, err := store.AppendEarnedTransaction(context.Background(), &txn)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(inserted).Should(BeTrue())
			Expect(txn.ID).Should(Equal(int64(77)))
		})
		It("AppendEarnedTransaction skips a duplicate award", func() {
			at := time.Now().UTC()
			oid := int64(5)
			txn := model.LoyaltyTransaction{
				AccountID: 3, PointsDelta: 23, BalanceAfter: 23, OrderID: &oid,
				Description: "earned on order 20250314-0042", CreatedAt: at,
			}

			mock.ExpectQuery("INSERT INTO loyalty_transactions").
				WithArgs(int64(3), model.LoyaltyEarned, int64(23), int64(23), &oid, txn.Description, at).
				WillReturnError(pgx.ErrNoRows)

			inserted, err := store.AppendEarnedTransaction(context.Background(), &txn)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(inserted).Should(BeFalse())
		})
		It("GetLoyaltyTransactions without error", func() {
			at := time.Now().UTC()
			oid := int64(5)

			rows := pgxmock.NewRows([]string{
				"id", "account_id", "type", "points_delta", "balance_after", "order_id", "description", "created_at",
			}).
				AddRow(int64(9), int64(3), model.LoyaltyRedeemed, int64(-30), int64(43), (*int64)(nil), "points redemption", at).
				AddRow(int64(8), int64(3), model.LoyaltyEarned, int64(73), int64(73), &oid, "earned on order 20250314-0042", at)
			mock.ExpectQuery("SELECT (.+) FROM loyalty_transactions WHERE account_id = \\$1 ORDER BY id DESC LIMIT \\$2").
				WithArgs(int64(3), 20).WillReturnRows(rows)

			txns, err := store.GetLoyaltyTransactions(context.Background(), 3, 20)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(txns).Should(HaveLen(2))
			Expect(txns[0].Type).Should(Equal(model.LoyaltyRedeemed))
			Expect(txns[1].OrderID).ShouldNot(BeNil())
		})
		It("connection failures surface as store unavailable", func() {
			mock.ExpectQuery("SELECT (.+) FROM loyalty_accounts WHERE id = \\$1 FOR UPDATE").
				WithArgs(int64(3)).
				WillReturnError(&pgconn.PgError{Code: "08006", Message: "connection failure"})

			_, err := store.GetLoyaltyAccountForUpdate(context.Background(), 3)
			Expect(err).Should(MatchError(internal.ErrStoreUnavailable))
		})
	})
})
