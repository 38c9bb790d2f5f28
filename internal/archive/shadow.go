package archive

import (
	"github.com/google/uuid"

	"github.com/agrimart-np/agrimart-backend/pkg/db/models"
)

// Shadow constructors copy a live row into its archive shape. The archive row
// gets a fresh primary key; the original key survives in OriginalID.

func shadowUser(u models.User, deletedBy string, reason *string) models.ArchivedUser {
	return models.ArchivedUser{
		ID:                uuid.New(),
		OriginalID:        u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Phone:             u.Phone,
		Address:           u.Address,
		Role:              u.Role,
		Status:            u.Status,
		DocStatus:         u.DocStatus,
		ProfileImage:      u.ProfileImage,
		DeletedBy:         deletedBy,
		Reason:            reason,
		OriginalCreatedAt: u.CreatedAt,
	}
}

func shadowFarmerProfile(p models.FarmerProfile, deletedBy string) models.ArchivedFarmerProfile {
	return models.ArchivedFarmerProfile{
		ID:                uuid.New(),
		OriginalID:        p.ID,
		UserID:            p.UserID,
		FarmName:          p.FarmName,
		FarmLocation:      p.FarmLocation,
		PaymentDetails:    p.PaymentDetails,
		DeletedBy:         deletedBy,
		OriginalCreatedAt: p.CreatedAt,
	}
}

func shadowCollectorProfile(p models.CollectorProfile, deletedBy string) models.ArchivedCollectorProfile {
	return models.ArchivedCollectorProfile{
		ID:                uuid.New(),
		OriginalID:        p.ID,
		UserID:            p.UserID,
		CompanyName:       p.CompanyName,
		Location:          p.Location,
		PaymentDetails:    p.PaymentDetails,
		DeletedBy:         deletedBy,
		OriginalCreatedAt: p.CreatedAt,
	}
}

func shadowSupplierProfile(p models.SupplierProfile, deletedBy string) models.ArchivedSupplierProfile {
	return models.ArchivedSupplierProfile{
		ID:                uuid.New(),
		OriginalID:        p.ID,
		UserID:            p.UserID,
		CompanyName:       p.CompanyName,
		Location:          p.Location,
		PaymentDetails:    p.PaymentDetails,
		DeletedBy:         deletedBy,
		OriginalCreatedAt: p.CreatedAt,
	}
}

func shadowBuyerProfile(p models.BuyerProfile, deletedBy string) models.ArchivedBuyerProfile {
	return models.ArchivedBuyerProfile{
		ID:                uuid.New(),
		OriginalID:        p.ID,
		UserID:            p.UserID,
		DeliveryAddress:   p.DeliveryAddress,
		DeletedBy:         deletedBy,
		OriginalCreatedAt: p.CreatedAt,
	}
}

func shadowProduct(p models.Product, deletedBy string) models.ArchivedProduct {
	return models.ArchivedProduct{
		ID:                uuid.New(),
		OriginalID:        p.ID,
		OwnerID:           p.OwnerID,
		Name:              p.Name,
		Category:          p.Category,
		Quantity:          p.Quantity,
		Unit:              p.Unit,
		Price:             p.Price,
		Image:             p.Image,
		DeletedBy:         deletedBy,
		OriginalCreatedAt: p.CreatedAt,
	}
}

func shadowInventoryItem(i models.InventoryItem, deletedBy string) models.ArchivedInventoryItem {
	return models.ArchivedInventoryItem{
		ID:                uuid.New(),
		OriginalID:        i.ID,
		OwnerID:           i.OwnerID,
		Name:              i.Name,
		Category:          i.Category,
		Quantity:          i.Quantity,
		Unit:              i.Unit,
		Price:             i.Price,
		Image:             i.Image,
		DeletedBy:         deletedBy,
		OriginalCreatedAt: i.CreatedAt,
	}
}

func shadowOrder(o models.Order, deletedBy string) models.ArchivedOrder {
	return models.ArchivedOrder{
		ID:                uuid.New(),
		OriginalID:        o.ID,
		OrderID:           o.OrderID,
		BuyerID:           o.BuyerID,
		SellerID:          o.SellerID,
		SellerRole:        o.SellerRole,
		Products:          o.Products,
		TotalAmount:       o.TotalAmount,
		DeliveryCharge:    o.DeliveryCharge,
		Status:            o.Status,
		PaymentStatus:     o.PaymentStatus,
		PaymentMethod:     o.PaymentMethod,
		TransactionUUID:   o.TransactionUUID,
		TransactionCode:   o.TransactionCode,
		IsStocked:         o.IsStocked,
		DeletedBy:         deletedBy,
		OriginalCreatedAt: o.CreatedAt,
	}
}

func shadowWallet(w models.Wallet, deletedBy string) models.ArchivedWallet {
	return models.ArchivedWallet{
		ID:                uuid.New(),
		OriginalID:        w.ID,
		UserID:            w.UserID,
		AvailableBalance:  w.AvailableBalance,
		LockedBalance:     w.LockedBalance,
		TotalEarnings:     w.TotalEarnings,
		IsFrozen:          w.IsFrozen,
		DeletedBy:         deletedBy,
		OriginalCreatedAt: w.CreatedAt,
	}
}

func shadowTransaction(t models.Transaction, deletedBy string) models.ArchivedTransaction {
	return models.ArchivedTransaction{
		ID:                uuid.New(),
		OriginalID:        t.ID,
		SellerID:          t.SellerID,
		BuyerID:           t.BuyerID,
		Amount:            t.Amount,
		Type:              t.Type,
		PaymentMethod:     t.PaymentMethod,
		Status:            t.Status,
		Description:       t.Description,
		OrderID:           t.OrderID,
		WithdrawalID:      t.WithdrawalID,
		DeletedBy:         deletedBy,
		OriginalCreatedAt: t.CreatedAt,
	}
}

func shadowWithdrawal(w models.Withdrawal, deletedBy string) models.ArchivedWithdrawal {
	return models.ArchivedWithdrawal{
		ID:                uuid.New(),
		OriginalID:        w.ID,
		UserID:            w.UserID,
		Amount:            w.Amount,
		PaymentMethod:     w.PaymentMethod,
		AccountDetails:    w.AccountDetails,
		Status:            w.Status,
		Remarks:           w.Remarks,
		ProcessedAt:       w.ProcessedAt,
		DeletedBy:         deletedBy,
		OriginalCreatedAt: w.CreatedAt,
	}
}

func shadowActivity(a models.Activity, deletedBy string) models.ArchivedActivity {
	return models.ArchivedActivity{
		ID:                uuid.New(),
		OriginalID:        a.ID,
		Type:              a.Type,
		Message:           a.Message,
		Detail:            a.Detail,
		UserID:            a.UserID,
		Metadata:          a.Metadata,
		DeletedBy:         deletedBy,
		OriginalCreatedAt: a.CreatedAt,
	}
}

func shadowDispute(d models.Dispute, deletedBy string) models.ArchivedDispute {
	return models.ArchivedDispute{
		ID:                uuid.New(),
		OriginalID:        d.ID,
		OrderID:           d.OrderID,
		WithdrawalID:      d.WithdrawalID,
		TransactionUUID:   d.TransactionUUID,
		RaisedBy:          d.RaisedBy,
		SellerID:          d.SellerID,
		Reason:            d.Reason,
		Description:       d.Description,
		Status:            d.Status,
		Resolution:        d.Resolution,
		DeletedBy:         deletedBy,
		OriginalCreatedAt: d.CreatedAt,
	}
}

func shadowOTP(o models.OTP, deletedBy string) models.ArchivedOTP {
	return models.ArchivedOTP{
		ID:                uuid.New(),
		OriginalID:        o.ID,
		Email:             o.Email,
		CodeHash:          o.CodeHash,
		ExpiresAt:         o.ExpiresAt,
		DeletedBy:         deletedBy,
		OriginalCreatedAt: o.CreatedAt,
	}
}
