package services

import (
	"context"
	"log"
	"strings"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"github.com/example/store/internal/models"
	"github.com/example/store/internal/validation"
)

// MsgDuplicateEmail is reported when another customer already uses an email.
const MsgDuplicateEmail = "Customer with this Email already exists."

// CustomerService creates, edits and removes customers.
type CustomerService struct {
	db *gorm.DB
}

// NewCustomerService constructs CustomerService.
func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// CustomerInput carries the fields accepted when registering a customer.
type CustomerInput struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Email       string  `json:"email" validate:"required,email,max=254"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=15"`
}

func (in *CustomerInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.PhoneNumber = normalizePhone(in.PhoneNumber)
}

// CustomerPatch carries a partial edit. Nil fields are left untouched;
// an empty phone number clears it.
type CustomerPatch struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=200"`
	Email       *string `json:"email" validate:"omitnil,min=1,email,max=254"`
	PhoneNumber *string `json:"phone_number" validate:"omitnil,max=15"`
}

func (p *CustomerPatch) normalize() {
	p.Name = trimmed(p.Name)
	p.Email = trimmed(p.Email)
	p.PhoneNumber = trimmed(p.PhoneNumber)
}

// Create validates in and stores a new customer.
func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	in.normalize()

	errs := validation.Struct(in)
	if _, bad := errs["email"]; !bad {
		taken, err := s.emailTaken(ctx, in.Email, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("email", MsgDuplicateEmail)
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	customer := &models.Customer{
		Name:        in.Name,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
	}

	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validation.Field("email", MsgDuplicateEmail)
		}
		return nil, errors.Wrap(err, "create customer")
	}

	log.Printf("[Customer] registered customer %d <%s>", customer.ID, customer.Email)
	return customer, nil
}

// Get returns the customer with its orders.
func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.WithContext(ctx).
		Preload("Orders", func(tx *gorm.DB) *gorm.DB { return tx.Order("id desc") }).
		First(&customer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "customer %d", id)
		}
		return nil, errors.Wrapf(err, "load customer %d", id)
	}
	return &customer, nil
}

// Update applies patch to the customer. The registration time never changes.
func (s *CustomerService) Update(ctx context.Context, id uint, patch CustomerPatch) (*models.Customer, error) {
	patch.normalize()

	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	errs := validation.Struct(patch)
	if _, bad := errs["email"]; !bad && patch.Email != nil && *patch.Email != customer.Email {
		taken, err := s.emailTaken(ctx, *patch.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("email", MsgDuplicateEmail)
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.PhoneNumber != nil {
		if *patch.PhoneNumber == "" {
			updates["phone_number"] = nil
		} else {
			updates["phone_number"] = *patch.PhoneNumber
		}
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, validation.Field("email", MsgDuplicateEmail)
			}
			return nil, errors.Wrapf(err, "update customer %d", id)
		}
	}

	return s.Get(ctx, id)
}

// Delete removes the customer together with all of its orders and reports
// how many orders went with it.
func (s *CustomerService) Delete(ctx context.Context, id uint) (int64, error) {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.First(&customer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.Wrapf(ErrNotFound, "customer %d", id)
			}
			return err
		}

		result := tx.Where("customer_id = ?", id).Delete(&models.Order{})
		if result.Error != nil {
			return errors.Wrapf(result.Error, "delete orders of customer %d", id)
		}
		removed = result.RowsAffected

		return tx.Delete(&customer).Error
	})
	if err != nil {
		return 0, err
	}

	log.Printf("[Customer] deleted customer %d and %d order(s)", id, removed)
	return removed, nil
}

func (s *CustomerService) emailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&models.Customer{}).Where("email = ?", email)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "check email uniqueness")
	}
	return count > 0, nil
}

func normalizePhone(phone *string) *string {
	phone = trimmed(phone)
	if phone == nil || *phone == "" {
		return nil
	}
	return phone
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}
