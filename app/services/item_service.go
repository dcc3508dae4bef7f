package services

import (
	"errors"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/config"
	"github.com/chhotalabhavik/cleanout/pkg/orm"
	"gorm.io/gorm"
)

// ItemService covers the item catalogue: shopkeeper CRUD and the buyer
// storefront.
type ItemService struct {
	items *repositories.ItemRepository
	shops *repositories.ShopkeeperRepository
	carts *repositories.CartRepository
}

func NewItemService() *ItemService {
	return &ItemService{
		items: repositories.NewItemRepository(),
		shops: repositories.NewShopkeeperRepository(),
		carts: repositories.NewCartRepository(),
	}
}

// Get fetches one item.
func (s *ItemService) Get(itemID uint) (models.Item, error) {
	item, err := s.items.FindByID(itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Item{}, Fail("Item not found")
	}
	return item, err
}

// ItemInput carries the add/update form; ItemImage is a storage path.
type ItemInput struct {
	ItemName    string  `json:"itemName"  validate:"required,max=255"`
	Price       float64 `json:"price"     validate:"required,gte=0"`
	Description string  `json:"description"`
	IsAvailable bool    `json:"isAvailable"`
	ItemImage   string  `json:"itemImage"`
}

// Add creates an item under the shopkeeper.
func (s *ItemService) Add(shopkeeperID uint, in ItemInput) (models.Item, error) {
	if _, err := s.shops.FindByUserID(shopkeeperID); errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Item{}, Fail("Shopkeeper not found")
	} else if err != nil {
		return models.Item{}, err
	}

	item := models.Item{
		ShopkeeperID: shopkeeperID,
		ItemName:     in.ItemName,
		Price:        in.Price,
		Description:  in.Description,
		IsAvailable:  in.IsAvailable,
		ItemImage:    in.ItemImage,
		RatingValue:  config.DefaultRating(),
	}
	if err := s.items.Create(&item); err != nil {
		return models.Item{}, err
	}
	return item, nil
}

// Update edits an item; only the owning shopkeeper may call it.
func (s *ItemService) Update(shopkeeperID, itemID uint, in ItemInput) (models.Item, error) {
	item, err := s.items.FindByID(itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && item.ShopkeeperID != shopkeeperID) {
		return models.Item{}, Fail("Item not found")
	}
	if err != nil {
		return models.Item{}, err
	}

	item.ItemName = in.ItemName
	item.Price = in.Price
	item.Description = in.Description
	item.IsAvailable = in.IsAvailable
	if in.ItemImage != "" {
		item.ItemImage = in.ItemImage
	}
	if err := s.items.Save(&item); err != nil {
		return models.Item{}, err
	}
	return item, nil
}

// Delete removes an item and every cart line holding it.
func (s *ItemService) Delete(shopkeeperID, itemID uint) error {
	item, err := s.items.FindByID(itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && item.ShopkeeperID != shopkeeperID) {
		return Fail("Item not found")
	}
	if err != nil {
		return err
	}

	return orm.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", itemID).Delete(&models.CartItemPack{}).Error; err != nil {
			return err
		}
		return s.items.WithTx(tx).Delete(itemID)
	})
}

// OwnedBy pages a shopkeeper's own items.
func (s *ItemService) OwnedBy(shopkeeperID uint, page int) ([]models.Item, orm.Pagination, error) {
	return s.items.OwnedBy(shopkeeperID, page, config.LimitItems())
}

// Random picks items for the home page.
func (s *ItemService) Random() ([]models.Item, error) {
	return s.items.Random(config.LimitItems())
}

// Store pages the buyer storefront.
func (s *ItemService) Store(search, sortBy string, page int) ([]models.Item, orm.Pagination, error) {
	return s.items.Store(search, sortBy, page, config.LimitItems())
}

// AddToCart upserts one unit of the item into the user's cart.
func (s *ItemService) AddToCart(userID, itemID uint, count int) error {
	item, err := s.items.FindByID(itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !item.IsAvailable) {
		return Fail("Item not found")
	}
	if err != nil {
		return err
	}
	if count < 1 {
		count = 1
	}
	return s.carts.Add(userID, itemID, count)
}
