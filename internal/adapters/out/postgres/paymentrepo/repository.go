package paymentrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/pkg/errs"
)

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormTransactionRepository implements ports.TransactionRepository using GORM.
type GormTransactionRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormTransactionRepository creates a new GORM ledger repository.
func NewGormTransactionRepository(db *gorm.DB, tracker aggregateTracker) *GormTransactionRepository {
	return &GormTransactionRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new ledger entry. The unique reference index turns a double
// submit into a ConflictError instead of a duplicate row.
func (r *GormTransactionRepository) Add(ctx context.Context, aggregate *payment.Transaction) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := transactionFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("transaction reference "+aggregate.Reference(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing ledger entry to the database.
func (r *GormTransactionRepository) Update(ctx context.Context, aggregate *payment.Transaction) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := transactionFromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&TransactionDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("transaction", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a ledger entry by ID.
func (r *GormTransactionRepository) Get(ctx context.Context, id kernel.UUID) (*payment.Transaction, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TransactionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("transaction", id.String())
		}
		return nil, err
	}

	return transactionToDomain(dto)
}

// GetByReference retrieves a ledger entry by its idempotency reference.
func (r *GormTransactionRepository) GetByReference(ctx context.Context, reference string) (*payment.Transaction, error) {
	if err := payment.ValidateReference(reference); err != nil {
		return nil, err
	}

	var dto TransactionDTO
	if err := r.db.WithContext(ctx).First(&dto, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("transaction", reference)
		}
		return nil, err
	}

	return transactionToDomain(dto)
}

// GetAllUndecided retrieves entries still pending or processing, oldest
// first. The reconciliation job polls these against the gateway.
func (r *GormTransactionRepository) GetAllUndecided(ctx context.Context) ([]*payment.Transaction, error) {
	var dtos []TransactionDTO
	err := r.db.WithContext(ctx).
		Where("status IN ?", []int{int(payment.Pending), int(payment.Processing)}).
		Order("initiated_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

// GetByOrder retrieves every ledger entry bound to the order, oldest first.
func (r *GormTransactionRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*payment.Transaction, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TransactionDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("initiated_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

func (r *GormTransactionRepository) toDomainAll(dtos []TransactionDTO) ([]*payment.Transaction, error) {
	transactions := make([]*payment.Transaction, 0, len(dtos))
	for _, dto := range dtos {
		t, err := transactionToDomain(dto)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, nil
}

// GormWalletRepository implements ports.WalletRepository using GORM.
type GormWalletRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormWalletRepository creates a new GORM wallet repository.
func NewGormWalletRepository(db *gorm.DB, tracker aggregateTracker) *GormWalletRepository {
	return &GormWalletRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new wallet account to the database.
func (r *GormWalletRepository) Add(ctx context.Context, aggregate *payment.WalletAccount) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := walletFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("wallet owner "+aggregate.OwnerID().String(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves a balance change to the database.
func (r *GormWalletRepository) Update(ctx context.Context, aggregate *payment.WalletAccount) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := walletFromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&WalletDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("wallet", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetByOwner retrieves the owner's wallet with a row lock. Inside a unit of
// work the lock holds until commit, so two concurrent balance changes
// serialize instead of both reading the same balance and losing one write.
func (r *GormWalletRepository) GetByOwner(ctx context.Context, ownerID kernel.UUID) (*payment.WalletAccount, error) {
	if err := ownerID.Validate(); err != nil {
		return nil, err
	}

	var dto WalletDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "owner_id = ?", ownerID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("wallet", "owner "+ownerID.String())
		}
		return nil, err
	}

	return walletToDomain(dto)
}
