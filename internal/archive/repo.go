package archive

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
	"github.com/agrimart-np/agrimart-backend/pkg/enums"
)

// Repository implements the copy-then-delete primitive for every cascade
// step. Each Archive* method moves all matching rows into their shadow table
// and reports how many it moved. Running a step twice is safe: the second run
// finds nothing.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ArchiveUserSnapshot(ctx context.Context, user *models.User, deletedBy string, reason *string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ArchiveProfile(ctx context.Context, userID uuid.UUID, role enums.Role, deletedBy string) (int64, error)
	ArchiveProducts(ctx context.Context, ownerID uuid.UUID, deletedBy string) (int64, error)
	ArchiveInventoryItems(ctx context.Context, ownerID uuid.UUID, deletedBy string) (int64, error)
	ArchiveOrders(ctx context.Context, userID uuid.UUID, deletedBy string) (int64, error)
	ArchiveWallet(ctx context.Context, userID uuid.UUID, deletedBy string) (int64, error)
	ArchiveTransactions(ctx context.Context, userID uuid.UUID, deletedBy string) (int64, error)
	ArchiveWithdrawals(ctx context.Context, userID uuid.UUID, deletedBy string) (int64, error)
	ArchiveActivities(ctx context.Context, userID uuid.UUID, deletedBy string) (int64, error)
	ArchiveDisputes(ctx context.Context, userID uuid.UUID, deletedBy string) (int64, error)
	ArchiveOTPs(ctx context.Context, email string, deletedBy string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) ArchiveUserSnapshot(ctx context.Context, user *models.User, deletedBy string, reason *string) error {
	shadow := shadowUser(*user, deletedBy, reason)
	return r.db.WithContext(ctx).Create(&shadow).Error
}

func (r *repository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error
}

func (r *repository) ArchiveProfile(ctx context.Context, userID uuid.UUID, role enums.Role, deletedBy string) (int64, error) {
	switch role {
	case enums.RoleFarmer:
		var rows []models.FarmerProfile
		if err := r.db.WithContext(ctx).Find(&rows, "user_id = ?", userID).Error; err != nil {
			return 0, err
		}
		for _, row := range rows {
			shadow := shadowFarmerProfile(row, deletedBy)
			if err := r.db.WithContext(ctx).Create(&shadow).Error; err != nil {
				return 0, err
			}
		}
		return r.deleteWhere(ctx, &models.FarmerProfile{}, "user_id = ?", userID)
	case enums.RoleCollector:
		var rows []models.CollectorProfile
		if err := r.db.WithContext(ctx).Find(&rows, "user_id = ?", userID).Error; err != nil {
			return 0, err
		}
		for _, row := range rows {
			shadow := shadowCollectorProfile(row, deletedBy)
			if err := r.db.WithContext(ctx).Create(&shadow).Error; err != nil {
				return 0, err
			}
		}
		return r.deleteWhere(ctx, &models.CollectorProfile{}, "user_id = ?", userID)
	case enums.RoleSupplier:
		var rows []models.SupplierProfile
		if err := r.db.WithContext(ctx).Find(&rows, "user_id = ?", userID).Error; err != nil {
			return 0, err
		}
		for _, row := range rows {
			shadow := shadowSupplierProfile(row, deletedBy)
			if err := r.db.WithContext(ctx).Create(&shadow).Error; err != nil {
				return 0, err
			}
		}
		return r.deleteWhere(ctx, &models.SupplierProfile{}, "user_id = ?", userID)
	case enums.RoleBuyer:
		var rows []models.BuyerProfile
		if err := r.db.WithContext(ctx).Find(&rows, "user_id = ?", userID).Error; err != nil {
			return 0, err
		}
		for _, row := range rows {
			shadow := shadowBuyerProfile(row, deletedBy)
			if err := r.db.WithContext(ctx).Create(&shadow).Error; err != nil {
				return 0, err
			}
		}
		return r.deleteWhere(ctx, &models.BuyerProfile{}, "user_id = ?", userID)
	default:
		return 0, nil
	}
}

func (r *repository) ArchiveProducts(ctx context.Context, ownerID uuid.UUID, deletedBy string) (int64, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).Find(&rows, "owner_id = ?", ownerID).Error; err != nil {
		return 0, err
	}
	for _, row := range rows {
		shadow := shadowProduct(row, deletedBy)
		if err := r.db.WithContext(ctx).Create(&shadow).Error; err != nil {
			return 0, err
		}
	}
	return r.deleteWhere(ctx, &models.Product{}, "owner_id = ?", ownerID)
}

func (r *repository) ArchiveInventoryItems(ctx context.Context, ownerID uuid.UUID, deletedBy string) (int64, error) {
	var rows []models.InventoryItem
	if err := r.db.WithContext(ctx).Find(&rows, "owner_id = ?", ownerID).Error; err != nil {
		return 0, err
	}
	for _, row := range rows {
		shadow := shadowInventoryItem(row, deletedBy)
		if err := r.db.WithContext(ctx).Create(&shadow).Error; err != nil {
			return 0, err
		}
	}
	return r.deleteWhere(ctx, &models.InventoryItem{}, "owner_id = ?", ownerID)
}

func (r *repository) ArchiveOrders(ctx context.Context, userID uuid.UUID, deletedBy string) (int64, error) {
	var rows []models.Order
	if err := r.db.WithContext(ctx).
		Find(&rows, "buyer_id = ? OR seller_id = ?", userID, userID).Error; err != nil {
		return 0, err
	}
	for _, row := range rows {
		shadow := shadowOrder(row, deletedBy)
		if err := r.db.WithContext(ctx).Create(&shadow).Error; err != nil {
			return 0, err
		}
	}
	return r.deleteWhere(ctx, &models.Order{}, "buyer_id = ? OR seller_id = ?", userID, userID)
}

func (r *repository) ArchiveWallet(ctx context.Context, userID uuid.UUID, deletedBy string) (int64, error) {
	var rows []models.Wallet
	if err := r.db.WithContext(ctx).Find(&rows, "user_id = ?", userID).Error; err != nil {
		return 0, err
	}
	for _, row := range rows {
		shadow := shadowWallet(row, deletedBy)
		if err := r.db.WithContext(ctx).Create(&shadow).Error; err != nil {
			return 0, err
		}
	}
	return r.deleteWhere(ctx, &models.Wallet{}, "user_id = ?", userID)
}

func (r *repository) ArchiveTransactions(ctx context.Context, userID uuid.UUID, deletedBy string) (int64, error) {
	var rows []models.Transaction
	if err := r.db.WithContext(ctx).
		Find(&rows, "seller_id = ? OR buyer_id = ?", userID, userID).Error; err != nil {
		return 0, err
	}
	for _, row := range rows {
		shadow := shadowTransaction(row, deletedBy)
		if err := r.db.WithContext(ctx).Create(&shadow).Error; err != nil {
			return 0, err
		}
	}
	return r.deleteWhere(ctx, &models.Transaction{}, "seller_id = ? OR buyer_id = ?", userID, userID)
}

func (r *repository) ArchiveWithdrawals(ctx context.Context, userID uuid.UUID, deletedBy string) (int64, error) {
	var rows []models.Withdrawal
	if err := r.db.WithContext(ctx).Find(&rows, "user_id = ?", userID).Error; err != nil {
		return 0, err
	}
	for _, row := range rows {
		shadow := shadowWithdrawal(row, deletedBy)
		if err := r.db.WithContext(ctx).Create(&shadow).Error; err != nil {
			return 0, err
		}
	}
	return r.deleteWhere(ctx, &models.Withdrawal{}, "user_id = ?", userID)
}

func (r *repository) ArchiveActivities(ctx context.Context, userID uuid.UUID, deletedBy string) (int64, error) {
	var rows []models.Activity
	if err := r.db.WithContext(ctx).Find(&rows, "user_id = ?", userID).Error; err != nil {
		return 0, err
	}
	for _, row := range rows {
		shadow := shadowActivity(row, deletedBy)
		if err := r.db.WithContext(ctx).Create(&shadow).Error; err != nil {
			return 0, err
		}
	}
	return r.deleteWhere(ctx, &models.Activity{}, "user_id = ?", userID)
}

func (r *repository) ArchiveDisputes(ctx context.Context, userID uuid.UUID, deletedBy string) (int64, error) {
	var rows []models.Dispute
	if err := r.db.WithContext(ctx).
		Find(&rows, "raised_by = ? OR seller_id = ?", userID, userID).Error; err != nil {
		return 0, err
	}
	for _, row := range rows {
		shadow := shadowDispute(row, deletedBy)
		if err := r.db.WithContext(ctx).Create(&shadow).Error; err != nil {
			return 0, err
		}
	}
	return r.deleteWhere(ctx, &models.Dispute{}, "raised_by = ? OR seller_id = ?", userID, userID)
}

func (r *repository) ArchiveOTPs(ctx context.Context, email string, deletedBy string) (int64, error) {
	var rows []models.OTP
	if err := r.db.WithContext(ctx).Find(&rows, "email = ?", email).Error; err != nil {
		return 0, err
	}
	for _, row := range rows {
		shadow := shadowOTP(row, deletedBy)
		if err := r.db.WithContext(ctx).Create(&shadow).Error; err != nil {
			return 0, err
		}
	}
	return r.deleteWhere(ctx, &models.OTP{}, "email = ?", email)
}

func (r *repository) deleteWhere(ctx context.Context, model any, query string, args ...any) (int64, error) {
	res := r.db.WithContext(ctx).Where(query, args...).Delete(model)
	return res.RowsAffected, res.Error
}
