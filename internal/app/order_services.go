package app

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/litovianka/bike-service/internal/domain/customers"
	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/domain/orders"
	"github.com/litovianka/bike-service/internal/domain/tickets"
	"github.com/litovianka/bike-service/internal/domain/users"
	"github.com/litovianka/bike-service/internal/pkg/logger"
)

// recentOrdersLimit caps the "other orders of this customer" block on the
// staff detail page.
const recentOrdersLimit = 5

// orderService implements the OrderService interface for the staff service
// panel
type orderService struct {
	orderRepo    orders.OrderRepository
	photoRepo    orders.PhotoRepository
	bikeRepo     customers.BikeRepository
	customerRepo customers.CustomerRepository
	userRepo     users.UserRepository
	ticketRepo   tickets.TicketRepository
	logRepo      notifications.LogRepository
	customerSvc  customers.CustomerService
	photoStore   orders.PhotoStore
	protocol     orders.ProtocolRenderer
	queue        notifications.Queue
	dashboard    orders.DashboardService
	logger       logger.Logger
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orderRepo orders.OrderRepository,
	photoRepo orders.PhotoRepository,
	bikeRepo customers.BikeRepository,
	customerRepo customers.CustomerRepository,
	userRepo users.UserRepository,
	ticketRepo tickets.TicketRepository,
	logRepo notifications.LogRepository,
	customerSvc customers.CustomerService,
	photoStore orders.PhotoStore,
	protocolRenderer orders.ProtocolRenderer,
	queue notifications.Queue,
	dashboard orders.DashboardService,
	logger logger.Logger,
) (orders.OrderService, error) {
	return &orderService{
		orderRepo:    orderRepo,
		photoRepo:    photoRepo,
		bikeRepo:     bikeRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		ticketRepo:   ticketRepo,
		logRepo:      logRepo,
		customerSvc:  customerSvc,
		photoStore:   photoStore,
		protocol:     protocolRenderer,
		queue:        queue,
		dashboard:    dashboard,
		logger:       logger,
	}, nil
}

// Create books a new repair per the intake form
func (s *orderService) Create(ctx context.Context, input *orders.CreateOrderInput) (*orders.CreateOrderResult, error) {
	bike, customer, err := s.resolveIntake(ctx, input)
	if err != nil {
		return nil, err
	}

	order := &orders.ServiceOrder{
		BikeID:           bike.ID,
		IssueDescription: strings.TrimSpace(input.IssueDescription),
		Status:           orders.StatusNew,
		Checklist:        map[string]bool{},
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create service order: %w", err)
	}

	s.dashboard.Invalidate()
	s.logger.Info("Created service order #", order.Code(), " for bike ", bike.ID)

	return &orders.CreateOrderResult{
		Order:    order,
		Bike:     bike,
		Customer: customer,
	}, nil
}

// resolveIntake finds or creates the bike and customer the new order goes
// onto. With BikeID set, the owner comes from the bike; otherwise the contact
// fields are matched against existing customers before anything is created.
func (s *orderService) resolveIntake(ctx context.Context, input *orders.CreateOrderInput) (*customers.Bike, *customers.Customer, error) {
	if input.BikeID != 0 {
		bike, err := s.bikeRepo.GetByID(ctx, input.BikeID)
		if err != nil {
			return nil, nil, err
		}
		customer, err := s.customerRepo.GetByID(ctx, bike.CustomerID)
		if err != nil {
			return nil, nil, err
		}
		return bike, customer, nil
	}

	var customer *customers.Customer
	var err error

	if input.CustomerID != 0 {
		customer, err = s.customerRepo.GetByID(ctx, input.CustomerID)
		if err != nil {
			return nil, nil, err
		}
	} else {
		if strings.TrimSpace(input.FullName) == "" ||
			strings.TrimSpace(input.Email) == "" ||
			strings.TrimSpace(input.BikeBrand) == "" {
			return nil, nil, customers.ErrMissingCustomerFields
		}
		customer, _, err = s.customerSvc.FindOrCreateByContact(ctx, input.FullName, input.Email, input.PhoneNumber)
		if err != nil {
			return nil, nil, err
		}
	}

	if strings.TrimSpace(input.BikeBrand) == "" {
		return nil, nil, customers.ErrMissingCustomerFields
	}

	bike := &customers.Bike{
		CustomerID:   customer.ID,
		Brand:        strings.TrimSpace(input.BikeBrand),
		Model:        strings.TrimSpace(input.BikeModel),
		SerialNumber: strings.TrimSpace(input.BikeSerial),
	}
	if err := s.bikeRepo.Create(ctx, bike); err != nil {
		return nil, nil, fmt.Errorf("failed to create bike: %w", err)
	}

	return bike, customer, nil
}

// List returns one panel page with ETA chips and waiting-ticket marks
func (s *orderService) List(ctx context.Context, query *orders.OrderQuery) (*orders.OrderPage, error) {
	page, err := s.orderRepo.List(ctx, query)
	if err != nil {
		return nil, err
	}

	today := time.Now()
	orderIDs := make([]int64, len(page.Rows))
	for i, row := range page.Rows {
		row.ETA = orders.ETAFor(row.Order, today)
		orderIDs[i] = row.Order.ID
	}

	waiting, err := s.ticketRepo.WaitingByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	for _, row := range page.Rows {
		row.HasWaitingTicket = waiting[row.Order.ID]
	}

	return page, nil
}

// Get returns the staff detail payload
func (s *orderService) Get(ctx context.Context, id int64) (*orders.OrderDetail, error) {
	order, bike, customer, err := s.orderParties(ctx, id)
	if err != nil {
		return nil, err
	}

	photos, err := s.photoRepo.ListByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}
	logs, err := s.logRepo.ListByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}
	orderTickets, err := s.ticketRepo.ListByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}

	recent, err := s.orderRepo.ListRecentByCustomerID(ctx, customer.ID, id, recentOrdersLimit)
	if err != nil {
		return nil, err
	}
	today := time.Now()
	for _, row := range recent {
		row.ETA = orders.ETAFor(row.Order, today)
	}

	totalOrders, err := s.orderRepo.CountByCustomerID(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	paidTotal, err := s.orderRepo.TotalPaidByCustomerID(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	return &orders.OrderDetail{
		Order:                order,
		Bike:                 bike,
		Customer:             customer,
		ETA:                  orders.ETAFor(order, today),
		Photos:               photos,
		Logs:                 logs,
		Tickets:              orderTickets,
		CustomerRecentOrders: recent,
		CustomerTotalOrders:  totalOrders,
		CustomerPaidTotal:    paidTotal,
	}, nil
}

// Update applies the staff detail form, stamping or clearing the completion
// time and queueing the "repair done" email when the order just became DONE
func (s *orderService) Update(ctx context.Context, id int64, input *orders.UpdateOrderInput, byUserID int64) (*orders.ServiceOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	order.IssueDescription = input.IssueDescription
	order.WorkDone = input.WorkDone
	order.PromisedDate = orders.ParsePromisedDate(input.PromisedDate)

	if input.Price != "" {
		price, err := orders.ParsePrice(input.Price)
		if err != nil {
			return nil, err
		}
		order.Price = price
	}

	if input.Checklist != nil {
		order.Checklist = orders.NormalizeChecklist(input.Checklist)
	}

	justCompleted := false
	if orders.ValidStatus(input.Status) {
		justCompleted = order.ApplyStatus(orders.Status(input.Status), time.Now())
	}

	if err := s.orderRepo.UpdateByID(ctx, order); err != nil {
		return nil, err
	}

	if justCompleted {
		if err := s.queueDoneEmail(ctx, order, byUserID); err != nil {
			return nil, err
		}
	}

	s.dashboard.Invalidate()
	return order, nil
}

// SetStatus applies a panel row status change
func (s *orderService) SetStatus(ctx context.Context, id int64, status string, byUserID int64) (*orders.ServiceOrder, error) {
	if !orders.ValidStatus(status) {
		return nil, fmt.Errorf("unknown order status %q", status)
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	justCompleted := order.ApplyStatus(orders.Status(status), time.Now())

	if err := s.orderRepo.UpdateByID(ctx, order); err != nil {
		return nil, err
	}

	if justCompleted {
		if err := s.queueDoneEmail(ctx, order, byUserID); err != nil {
			return nil, err
		}
	}

	s.dashboard.Invalidate()
	return order, nil
}

// SetPromisedDate applies a panel row promised-date change; empty clears
func (s *orderService) SetPromisedDate(ctx context.Context, id int64, promisedDate string) (*orders.ServiceOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	order.PromisedDate = orders.ParsePromisedDate(promisedDate)

	if err := s.orderRepo.UpdateByID(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ApplyPackage overwrites price, work summary, and checklist with a
// predefined package
func (s *orderService) ApplyPackage(ctx context.Context, id int64, packageKey string) (*orders.ServiceOrder, *orders.ServicePackage, error) {
	pkg, err := orders.PackageByKey(packageKey)
	if err != nil {
		return nil, nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	pkg.Apply(order)

	if err := s.orderRepo.UpdateByID(ctx, order); err != nil {
		return nil, nil, err
	}

	s.logger.Info("Applied package ", pkg.Key, " to order #", order.Code())
	return order, pkg, nil
}

// AttachPhotos stores every file of the form's "photos" field
func (s *orderService) AttachPhotos(ctx context.Context, orderID int64, form *multipart.Form) ([]*orders.ServiceOrderPhoto, error) {
	if _, err := s.orderRepo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}

	photos, err := s.photoStore.Upload(ctx, form, orderID)
	if err != nil {
		return nil, err
	}

	for _, photo := range photos {
		if err := s.photoRepo.Create(ctx, photo); err != nil {
			return nil, fmt.Errorf("failed to save photo record for '%s': %w", photo.Path, err)
		}
	}

	s.logger.Info("Attached ", len(photos), " photo(s) to order ", orderID)
	return photos, nil
}

// Photos lists an order's photos, newest first
func (s *orderService) Photos(ctx context.Context, orderID int64) ([]*orders.ServiceOrderPhoto, error) {
	return s.photoRepo.ListByOrderID(ctx, orderID)
}

// DownloadPhoto returns a photo's file name and content
func (s *orderService) DownloadPhoto(ctx context.Context, orderID, photoID int64) (string, []byte, error) {
	photo, err := s.photo(ctx, orderID, photoID)
	if err != nil {
		return "", nil, err
	}

	content, err := s.photoStore.Download(ctx, photo.Path)
	if err != nil {
		return "", nil, err
	}

	return filepath.Base(photo.Path), content, nil
}

// DeletePhoto removes the photo record and its stored file
func (s *orderService) DeletePhoto(ctx context.Context, orderID, photoID int64) error {
	photo, err := s.photo(ctx, orderID, photoID)
	if err != nil {
		return err
	}

	if err := s.photoRepo.DeleteByID(ctx, photo.ID); err != nil {
		return err
	}

	// A record can outlive its file (wiped media dir); removing the record
	// is the authoritative part, so a gone file is only worth a warning.
	present, err := s.photoStore.Exists(ctx, photo.Path)
	if err != nil {
		return err
	}
	if !present {
		s.logger.Warn("Photo file already gone: ", photo.Path)
		return nil
	}
	return s.photoStore.Delete(ctx, photo.Path)
}

func (s *orderService) photo(ctx context.Context, orderID, photoID int64) (*orders.ServiceOrderPhoto, error) {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if photo.OrderID != orderID {
		return nil, fmt.Errorf("photo %d does not belong to order %d", photoID, orderID)
	}
	return photo, nil
}

// SendSMS queues a manual SMS to the customer and logs it on the order. A
// blank phone falls back to the number on the customer's profile.
func (s *orderService) SendSMS(ctx context.Context, orderID int64, phone, text string, byUserID int64) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("SMS text must not be empty")
	}

	order, _, customer, err := s.orderParties(ctx, orderID)
	if err != nil {
		return err
	}

	phone = strings.TrimSpace(phone)
	if phone == "" {
		phone = customer.PhoneNumber
	}
	if phone == "" {
		return fmt.Errorf("customer %d has no phone number", customer.ID)
	}

	job := notifications.NewJob(notifications.JobSMS)
	job.OrderID = order.ID
	job.Phone = phone
	job.Text = text
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to queue SMS: %w", err)
	}

	return s.writeLog(ctx, order.ID, notifications.KindSMS,
		fmt.Sprintf("To %s: %s", phone, text), byUserID)
}

// SendProtocolEmail queues the protocol email with the PDF attached and logs
// it on the order
func (s *orderService) SendProtocolEmail(ctx context.Context, orderID int64, byUserID int64) error {
	order, _, customer, err := s.orderParties(ctx, orderID)
	if err != nil {
		return err
	}
	if customer.Email == "" {
		return orders.ErrCustomerWithoutEmail
	}

	job := notifications.NewJob(notifications.JobProtocolEmail)
	job.OrderID = order.ID
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to queue protocol email: %w", err)
	}

	return s.writeLog(ctx, order.ID, notifications.KindEmailProtocol,
		fmt.Sprintf("To %s: servis_protokol_%s.pdf", customer.Email, order.Code()), byUserID)
}

// InviteToPortal queues a portal invitation for the order's customer,
// creating and linking the portal account when missing
func (s *orderService) InviteToPortal(ctx context.Context, orderID int64, byUserID int64) error {
	order, _, customer, err := s.orderParties(ctx, orderID)
	if err != nil {
		return err
	}
	if customer.Email == "" {
		return orders.ErrCustomerWithoutEmail
	}

	user, userCreated, err := ensurePortalAccount(ctx, s.userRepo, s.customerRepo, customer)
	if err != nil {
		return err
	}

	job := notifications.NewJob(notifications.JobInviteEmail)
	job.OrderID = order.ID
	job.CustomerID = customer.ID
	job.UserID = user.ID
	job.UserCreated = userCreated
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to queue portal invite: %w", err)
	}

	return s.writeLog(ctx, order.ID, notifications.KindEmailInvite,
		fmt.Sprintf("Pozvánka do portálu odoslaná na %s", customer.Email), byUserID)
}

// ProtocolPDF renders the service protocol and returns its file name and
// content
func (s *orderService) ProtocolPDF(ctx context.Context, orderID int64) (string, []byte, error) {
	order, bike, customer, err := s.orderParties(ctx, orderID)
	if err != nil {
		return "", nil, err
	}

	pdf, err := s.protocol.Render(order, bike, customer)
	if err != nil {
		return "", nil, fmt.Errorf("failed to render protocol: %w", err)
	}

	return fmt.Sprintf("servis_protokol_%s.pdf", order.Code()), pdf, nil
}

// queueDoneEmail enqueues the "repair done" notice and records it on the
// order. A customer without an email gets no notice, which is not an error;
// walk-ins are sometimes phone-only.
func (s *orderService) queueDoneEmail(ctx context.Context, order *orders.ServiceOrder, byUserID int64) error {
	_, _, customer, err := s.orderParties(ctx, order.ID)
	if err != nil {
		return err
	}
	if customer.Email == "" {
		s.logger.Warn("Order #", order.Code(), " completed but customer ", customer.ID, " has no email")
		return nil
	}

	job := notifications.NewJob(notifications.JobDoneEmail)
	job.OrderID = order.ID
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to queue done email: %w", err)
	}

	return s.writeLog(ctx, order.ID, notifications.KindEmailDone,
		fmt.Sprintf("To %s: servis hotový", customer.Email), byUserID)
}

func (s *orderService) writeLog(ctx context.Context, orderID int64, kind notifications.LogKind, body string, byUserID int64) error {
	log := &notifications.ServiceOrderLog{
		OrderID: orderID,
		Kind:    kind,
		Body:    body,
	}
	if byUserID != 0 {
		log.CreatedByID = &byUserID
	}
	if err := s.logRepo.Create(ctx, log); err != nil {
		return fmt.Errorf("failed to record notification log: %w", err)
	}
	return nil
}

// orderParties resolves the order with the bike it is for and the customer
// who owns that bike.
func (s *orderService) orderParties(ctx context.Context, orderID int64) (*orders.ServiceOrder, *customers.Bike, *customers.Customer, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, nil, err
	}

	bike, err := s.bikeRepo.GetByID(ctx, order.BikeID)
	if err != nil {
		return nil, nil, nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, bike.CustomerID)
	if err != nil {
		return nil, nil, nil, err
	}

	return order, bike, customer, nil
}
