package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/chhotalabhavik/cleanout/app/models"
	"github.com/chhotalabhavik/cleanout/app/repositories"
	"github.com/chhotalabhavik/cleanout/app/services"
	"github.com/chhotalabhavik/cleanout/pkg/crypt"
)

// bookingFixture wires a customer, a worker offering one service with a
// flat variant and an area-priced variant, and the linking row.
type bookingFixture struct {
	customer models.User
	worker   models.User
	service  models.Service
	flat     models.ServiceSubCategory
	area     models.ServiceSubCategory
	link     models.WorkerService
}

func seedBooking(t *testing.T, db *gorm.DB) bookingFixture {
	t.Helper()

	customer := createUser(t, db, "Asha", "9000000001", models.RoleUser)
	worker := createWorker(t, db, "Raju", "9000000002")

	service := models.Service{
		ProviderID:      worker.ID,
		ServiceName:     "Deep Cleaning",
		ServiceCategory: "Cleaning",
	}
	require.NoError(t, db.Create(&service).Error)

	maxSqFt := 1000
	flat := models.ServiceSubCategory{ServiceID: service.ID, Name: "Bathroom", Price: 100}
	area := models.ServiceSubCategory{ServiceID: service.ID, Name: "Floor", Price: 500, MaxSquareFt: &maxSqFt}
	require.NoError(t, db.Create(&flat).Error)
	require.NoError(t, db.Create(&area).Error)

	link := models.WorkerService{WorkerID: worker.ID, ServiceID: service.ID}
	require.NoError(t, db.Create(&link).Error)

	return bookingFixture{customer: customer, worker: worker, service: service, flat: flat, area: area, link: link}
}

func TestBookComputesPriceServerSide(t *testing.T) {
	db := setupDB(t)
	fx := seedBooking(t, db)
	svc := services.NewServiceOrderService()

	// 2 bathrooms at 100 plus 1500 sq ft of floor at 500 per 1000 sq ft
	// block: 200 + 2*500 = 1200, regardless of what the client claims.
	orderID, err := svc.Book(fx.customer.ID, fx.link.ID, []services.BookLine{
		{SubCategoryID: fx.flat.ID, Qty: 2},
		{SubCategoryID: fx.area.ID, Qty: 1500},
	})
	require.NoError(t, err)

	order, err := repositories.NewServiceOrderRepository().FindByID(orderID)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, order.Price)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, "Cleaning", order.ServiceCategory)
	assert.Contains(t, order.MetaData, "subCategoryId")

	var link models.WorkerService
	require.NoError(t, db.First(&link, fx.link.ID).Error)
	assert.Equal(t, int64(1), link.OrderedCount)
}

func TestBookRejectsBadLines(t *testing.T) {
	db := setupDB(t)
	fx := seedBooking(t, db)
	svc := services.NewServiceOrderService()

	_, err := svc.Book(fx.customer.ID, fx.link.ID, []services.BookLine{
		{SubCategoryID: fx.flat.ID, Qty: 0},
	})
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid quantity", msg)

	_, err = svc.Book(fx.customer.ID, fx.link.ID, []services.BookLine{
		{SubCategoryID: 99999, Qty: 1},
	})
	msg, ok = services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Service not found", msg)
}

func TestDoneRequiresWorkStarted(t *testing.T) {
	db := setupDB(t)
	fx := seedBooking(t, db)
	svc := services.NewServiceOrderService()

	orderID, err := svc.Book(fx.customer.ID, fx.link.ID, []services.BookLine{
		{SubCategoryID: fx.flat.ID, Qty: 1},
	})
	require.NoError(t, err)

	err = svc.Done(orderID)
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Cannot complete order", msg)

	order, err := svc.Get(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
}

// sealKnownOTP plants a known delivery code on the order so the test can
// present it.
func sealKnownOTP(t *testing.T, db *gorm.DB, orderID uint, code string, expiry time.Time) {
	t.Helper()
	sealed, err := crypt.Encrypt(code)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.ServiceOrder{}).Where("id = ?", orderID).
		Updates(map[string]interface{}{"otp": sealed, "otp_expires_at": expiry}).Error)
}

func TestOTPHandshake(t *testing.T) {
	db := setupDB(t)
	fx := seedBooking(t, db)
	svc := services.NewServiceOrderService()

	orderID, err := svc.Book(fx.customer.ID, fx.link.ID, []services.BookLine{
		{SubCategoryID: fx.flat.ID, Qty: 1},
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendOTP(orderID))

	order, err := svc.Get(orderID)
	require.NoError(t, err)
	assert.NotEmpty(t, order.OTP)
	assert.NotNil(t, order.OTPExpiresAt)

	sealKnownOTP(t, db, orderID, "123456", time.Now().Add(10*time.Minute))

	// A wrong code never mutates the order.
	err = svc.VerifyOTP(orderID, "000000")
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Incorrect OTP", msg)

	order, err = svc.Get(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.NotEmpty(t, order.OTP)

	// The right code starts the work and consumes the code.
	require.NoError(t, svc.VerifyOTP(orderID, "123456"))

	order, err = svc.Get(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBeingServed, order.Status)
	assert.Empty(t, order.OTP)
	assert.Nil(t, order.OTPExpiresAt)

	// A second verification hits the state gate.
	err = svc.VerifyOTP(orderID, "123456")
	msg, ok = services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Cannot verify OTP", msg)

	// Now the order can complete.
	require.NoError(t, svc.Done(orderID))
	order, err = svc.Get(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, order.Status)
	assert.NotNil(t, order.DeliveredDate)
}

func TestVerifyOTPExpired(t *testing.T) {
	db := setupDB(t)
	fx := seedBooking(t, db)
	svc := services.NewServiceOrderService()

	orderID, err := svc.Book(fx.customer.ID, fx.link.ID, []services.BookLine{
		{SubCategoryID: fx.flat.ID, Qty: 1},
	})
	require.NoError(t, err)

	sealKnownOTP(t, db, orderID, "123456", time.Now().Add(-time.Minute))

	err = svc.VerifyOTP(orderID, "123456")
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Incorrect OTP", msg)

	order, err := svc.Get(orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
}

func TestSendOTPOnlyWhilePending(t *testing.T) {
	db := setupDB(t)
	fx := seedBooking(t, db)
	svc := services.NewServiceOrderService()

	orderID, err := svc.Book(fx.customer.ID, fx.link.ID, []services.BookLine{
		{SubCategoryID: fx.flat.ID, Qty: 1},
	})
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(orderID))

	err = svc.SendOTP(orderID)
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Cannot send OTP", msg)
}

func TestCancelBookingDecrementsOnce(t *testing.T) {
	db := setupDB(t)
	fx := seedBooking(t, db)
	svc := services.NewServiceOrderService()

	orderID, err := svc.Book(fx.customer.ID, fx.link.ID, []services.BookLine{
		{SubCategoryID: fx.flat.ID, Qty: 1},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(orderID))

	var link models.WorkerService
	require.NoError(t, db.First(&link, fx.link.ID).Error)
	assert.Equal(t, int64(0), link.OrderedCount)

	err = svc.Cancel(orderID)
	msg, ok := services.AsFail(err)
	require.True(t, ok)
	assert.Equal(t, "Service order already cancelled", msg)

	require.NoError(t, db.First(&link, fx.link.ID).Error)
	assert.Equal(t, int64(0), link.OrderedCount)
}

func TestReplaceBookingKeepsTerms(t *testing.T) {
	db := setupDB(t)
	fx := seedBooking(t, db)
	svc := services.NewServiceOrderService()

	oldID, err := svc.Book(fx.customer.ID, fx.link.ID, []services.BookLine{
		{SubCategoryID: fx.flat.ID, Qty: 2},
	})
	require.NoError(t, err)

	freshID, err := svc.Replace(oldID)
	require.NoError(t, err)
	require.NotEqual(t, oldID, freshID)

	old, err := svc.Get(oldID)
	require.NoError(t, err)
	fresh, err := svc.Get(freshID)
	require.NoError(t, err)

	assert.Equal(t, old.Price, fresh.Price)
	assert.Equal(t, old.MetaData, fresh.MetaData)
	assert.Equal(t, old.WorkerID, fresh.WorkerID)
	assert.Equal(t, models.StatusPending, fresh.Status)

	var link models.WorkerService
	require.NoError(t, db.First(&link, fx.link.ID).Error)
	assert.Equal(t, int64(2), link.OrderedCount)
}
