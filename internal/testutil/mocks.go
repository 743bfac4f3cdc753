package testutil

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/knappert/spendwise/spendwise-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[uuid.UUID]*domain.Category
	Usage      map[uuid.UUID]int64
	CreateFn   func(category *domain.Category) (*domain.Category, error)
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[uuid.UUID]*domain.Category),
		Usage:      make(map[uuid.UUID]int64),
	}
}

// Create creates a new category
func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if m.CreateFn != nil {
		return m.CreateFn(category)
	}
	for _, existing := range m.Categories {
		if existing.UserID == category.UserID && existing.Type == category.Type && existing.Name == category.Name {
			return nil, domain.ErrAlreadyExists
		}
	}
	created := *category
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.Categories[created.ID] = &created
	return &created, nil
}

// GetByID retrieves a category by id within a user's data
func (m *MockCategoryRepository) GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Category, error) {
	if category, ok := m.Categories[id]; ok && category.UserID == userID {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// ListWithUsage lists a user's categories with usage counts
func (m *MockCategoryRepository) ListWithUsage(ctx context.Context, userID uuid.UUID, txType *domain.TransactionType) ([]*domain.Category, error) {
	var categories []*domain.Category
	for _, category := range m.Categories {
		if category.UserID != userID {
			continue
		}
		if txType != nil && category.Type != *txType {
			continue
		}
		copied := *category
		copied.InUseCount = m.Usage[category.ID]
		categories = append(categories, &copied)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// Update updates a category's name and description
func (m *MockCategoryRepository) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, data *domain.UpdateReferenceData) (*domain.Category, error) {
	category, ok := m.Categories[id]
	if !ok || category.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	for _, existing := range m.Categories {
		if existing.ID != id && existing.UserID == userID && existing.Type == category.Type && existing.Name == data.Name {
			return nil, domain.ErrAlreadyExists
		}
	}
	category.Name = data.Name
	category.Description = data.Description
	category.UpdatedAt = time.Now()
	return category, nil
}

// SafeDelete deletes a category unless it is in use
func (m *MockCategoryRepository) SafeDelete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (bool, int64, error) {
	category, ok := m.Categories[id]
	if !ok || category.UserID != userID {
		return false, 0, domain.ErrCategoryNotFound
	}
	if count := m.Usage[id]; count > 0 {
		return false, count, nil
	}
	delete(m.Categories, id)
	return true, 0, nil
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	m.Categories[category.ID] = category
}

// MockBankAccountRepository is a mock implementation of domain.BankAccountRepository
type MockBankAccountRepository struct {
	Accounts map[uuid.UUID]*domain.BankAccount
	Usage    map[uuid.UUID]int64
}

// NewMockBankAccountRepository creates a new MockBankAccountRepository
func NewMockBankAccountRepository() *MockBankAccountRepository {
	return &MockBankAccountRepository{
		Accounts: make(map[uuid.UUID]*domain.BankAccount),
		Usage:    make(map[uuid.UUID]int64),
	}
}

// Create creates a new bank account
func (m *MockBankAccountRepository) Create(ctx context.Context, account *domain.BankAccount) (*domain.BankAccount, error) {
	for _, existing := range m.Accounts {
		if existing.UserID == account.UserID && existing.Name == account.Name {
			return nil, domain.ErrAlreadyExists
		}
	}
	created := *account
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.Accounts[created.ID] = &created
	return &created, nil
}

// GetByID retrieves a bank account by id within a user's data
func (m *MockBankAccountRepository) GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.BankAccount, error) {
	if account, ok := m.Accounts[id]; ok && account.UserID == userID {
		return account, nil
	}
	return nil, domain.ErrBankAccountNotFound
}

// ListWithUsage lists a user's bank accounts with usage counts
func (m *MockBankAccountRepository) ListWithUsage(ctx context.Context, userID uuid.UUID) ([]*domain.BankAccount, error) {
	var accounts []*domain.BankAccount
	for _, account := range m.Accounts {
		if account.UserID != userID {
			continue
		}
		copied := *account
		copied.InUseCount = m.Usage[account.ID]
		accounts = append(accounts, &copied)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

// Update updates a bank account's name and description
func (m *MockBankAccountRepository) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, data *domain.UpdateReferenceData) (*domain.BankAccount, error) {
	account, ok := m.Accounts[id]
	if !ok || account.UserID != userID {
		return nil, domain.ErrBankAccountNotFound
	}
	for _, existing := range m.Accounts {
		if existing.ID != id && existing.UserID == userID && existing.Name == data.Name {
			return nil, domain.ErrAlreadyExists
		}
	}
	account.Name = data.Name
	account.Description = data.Description
	account.UpdatedAt = time.Now()
	return account, nil
}

// SafeDelete deletes a bank account unless it is in use
func (m *MockBankAccountRepository) SafeDelete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (bool, int64, error) {
	account, ok := m.Accounts[id]
	if !ok || account.UserID != userID {
		return false, 0, domain.ErrBankAccountNotFound
	}
	if count := m.Usage[id]; count > 0 {
		return false, count, nil
	}
	delete(m.Accounts, id)
	return true, 0, nil
}

// AddBankAccount adds a bank account to the mock repository (helper for tests)
func (m *MockBankAccountRepository) AddBankAccount(account *domain.BankAccount) {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	m.Accounts[account.ID] = account
}

// MockTagRepository is a mock implementation of domain.TagRepository
type MockTagRepository struct {
	Tags  map[uuid.UUID]*domain.Tag
	Usage map[uuid.UUID]int64
}

// NewMockTagRepository creates a new MockTagRepository
func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{
		Tags:  make(map[uuid.UUID]*domain.Tag),
		Usage: make(map[uuid.UUID]int64),
	}
}

// Create creates a new tag
func (m *MockTagRepository) Create(ctx context.Context, tag *domain.Tag) (*domain.Tag, error) {
	for _, existing := range m.Tags {
		if existing.UserID == tag.UserID && existing.Name == tag.Name {
			return nil, domain.ErrAlreadyExists
		}
	}
	created := *tag
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.Tags[created.ID] = &created
	return &created, nil
}

// GetByID retrieves a tag by id within a user's data
func (m *MockTagRepository) GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Tag, error) {
	if tag, ok := m.Tags[id]; ok && tag.UserID == userID {
		return tag, nil
	}
	return nil, domain.ErrTagNotFound
}

// GetByNames retrieves a user's tags matching any of the names
func (m *MockTagRepository) GetByNames(ctx context.Context, userID uuid.UUID, names []string) ([]*domain.Tag, error) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	var tags []*domain.Tag
	for _, tag := range m.Tags {
		if tag.UserID == userID && wanted[tag.Name] {
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

// ListWithUsage lists a user's tags with usage counts
func (m *MockTagRepository) ListWithUsage(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	for _, tag := range m.Tags {
		if tag.UserID != userID {
			continue
		}
		copied := *tag
		copied.InUseCount = m.Usage[tag.ID]
		tags = append(tags, &copied)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

// Update updates a tag's name and description
func (m *MockTagRepository) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, data *domain.UpdateReferenceData) (*domain.Tag, error) {
	tag, ok := m.Tags[id]
	if !ok || tag.UserID != userID {
		return nil, domain.ErrTagNotFound
	}
	for _, existing := range m.Tags {
		if existing.ID != id && existing.UserID == userID && existing.Name == data.Name {
			return nil, domain.ErrAlreadyExists
		}
	}
	tag.Name = data.Name
	tag.Description = data.Description
	tag.UpdatedAt = time.Now()
	return tag, nil
}

// SafeDelete deletes a tag unless it is in use
func (m *MockTagRepository) SafeDelete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (bool, int64, error) {
	tag, ok := m.Tags[id]
	if !ok || tag.UserID != userID {
		return false, 0, domain.ErrTagNotFound
	}
	if count := m.Usage[id]; count > 0 {
		return false, count, nil
	}
	delete(m.Tags, id)
	return true, 0, nil
}

// AddTag adds a tag to the mock repository (helper for tests)
func (m *MockTagRepository) AddTag(tag *domain.Tag) {
	if tag.ID == uuid.Nil {
		tag.ID = uuid.New()
	}
	m.Tags[tag.ID] = tag
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	CreateFn     func(userID uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(ctx context.Context, userID uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(userID, data)
	}
	created := &domain.Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		Date:          data.Date,
		Type:          data.Type,
		Amount:        data.Amount,
		CategoryID:    data.CategoryID,
		BankAccountID: data.BankAccountID,
		Notes:         data.Notes,
		Tags:          []string{},
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	m.Transactions[created.ID] = created
	return created, nil
}

// GetByID retrieves a transaction by id within a user's data
func (m *MockTransactionRepository) GetByID(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Transaction, error) {
	if transaction, ok := m.Transactions[id]; ok && transaction.UserID == userID {
		return transaction, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// List lists a user's transactions; the mock applies only the type filter
// and pagination.
func (m *MockTransactionRepository) List(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	var transactions []*domain.Transaction
	for _, transaction := range m.Transactions {
		if transaction.UserID != userID {
			continue
		}
		if filters != nil && filters.Type != nil && transaction.Type != *filters.Type {
			continue
		}
		transactions = append(transactions, transaction)
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
		}
	}

	totalItems := int64(len(transactions))
	totalPages := int32(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) > 0 {
		totalPages++
	}
	start := int((page - 1) * pageSize)
	if start > len(transactions) {
		start = len(transactions)
	}
	end := start + int(pageSize)
	if end > len(transactions) {
		end = len(transactions)
	}

	return &domain.PaginatedTransactions{
		Data:       transactions[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// Update updates a transaction
func (m *MockTransactionRepository) Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, data *domain.UpdateTransactionData) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.Date = data.Date
	transaction.Type = data.Type
	transaction.Amount = data.Amount
	transaction.CategoryID = data.CategoryID
	transaction.BankAccountID = data.BankAccountID
	transaction.Notes = data.Notes
	transaction.UpdatedAt = time.Now()
	return transaction, nil
}

// Delete deletes a transaction
func (m *MockTransactionRepository) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if transaction, ok := m.Transactions[id]; ok && transaction.UserID == userID {
		delete(m.Transactions, id)
		return nil
	}
	return domain.ErrTransactionNotFound
}

// DeleteMany deletes a batch of the user's transactions
func (m *MockTransactionRepository) DeleteMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if transaction, ok := m.Transactions[id]; ok && transaction.UserID == userID {
			delete(m.Transactions, id)
			deleted++
		}
	}
	return deleted, nil
}

// Sum totals the user's transactions; the mock applies the type and date
// filters.
func (m *MockTransactionRepository) Sum(ctx context.Context, userID uuid.UUID, filters *domain.SumFilters) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, transaction := range m.Transactions {
		if transaction.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.Type != nil && transaction.Type != *filters.Type {
				continue
			}
			if filters.From != nil && transaction.Date.Before(*filters.From) {
				continue
			}
			if filters.To != nil && transaction.Date.After(*filters.To) {
				continue
			}
		}
		total = total.Add(transaction.Amount)
	}
	return total, nil
}

// MonthlyTotals aggregates the user's transactions by month and type
func (m *MockTransactionRepository) MonthlyTotals(ctx context.Context, userID uuid.UUID, year, month *int) ([]*domain.MonthlyTotal, error) {
	buckets := make(map[string]*domain.MonthlyTotal)
	for _, transaction := range m.Transactions {
		if transaction.UserID != userID {
			continue
		}
		y, mo := transaction.Date.Year(), int(transaction.Date.Month())
		if year != nil && y != *year {
			continue
		}
		if month != nil && mo != *month {
			continue
		}
		key := fmt.Sprintf("%d-%d-%s", y, mo, transaction.Type)
		bucket, ok := buckets[key]
		if !ok {
			bucket = &domain.MonthlyTotal{Year: y, Month: mo, Type: transaction.Type}
			buckets[key] = bucket
		}
		bucket.Total = bucket.Total.Add(transaction.Amount)
	}
	var totals []*domain.MonthlyTotal
	for _, bucket := range buckets {
		totals = append(totals, bucket)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Year != totals[j].Year {
			return totals[i].Year < totals[j].Year
		}
		if totals[i].Month != totals[j].Month {
			return totals[i].Month < totals[j].Month
		}
		return totals[i].Type < totals[j].Type
	})
	return totals, nil
}

// YearlyTotals aggregates the user's transactions by year and type
func (m *MockTransactionRepository) YearlyTotals(ctx context.Context, userID uuid.UUID, year *int) ([]*domain.YearlyTotal, error) {
	buckets := make(map[string]*domain.YearlyTotal)
	for _, transaction := range m.Transactions {
		if transaction.UserID != userID {
			continue
		}
		y := transaction.Date.Year()
		if year != nil && y != *year {
			continue
		}
		key := fmt.Sprintf("%d-%s", y, transaction.Type)
		bucket, ok := buckets[key]
		if !ok {
			bucket = &domain.YearlyTotal{Year: y, Type: transaction.Type}
			buckets[key] = bucket
		}
		bucket.Total = bucket.Total.Add(transaction.Amount)
	}
	var totals []*domain.YearlyTotal
	for _, bucket := range buckets {
		totals = append(totals, bucket)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Year != totals[j].Year {
			return totals[i].Year < totals[j].Year
		}
		return totals[i].Type < totals[j].Type
	})
	return totals, nil
}

// MonthlyCategoryTotals is not exercised by the current tests
func (m *MockTransactionRepository) MonthlyCategoryTotals(ctx context.Context, userID uuid.UUID, year, month *int) ([]*domain.MonthlyCategoryTotal, error) {
	return nil, nil
}

// YearlyCategoryTotals is not exercised by the current tests
func (m *MockTransactionRepository) YearlyCategoryTotals(ctx context.Context, userID uuid.UUID, year *int) ([]*domain.YearlyCategoryTotal, error) {
	return nil, nil
}

// TaggedTotals aggregates by type over transactions carrying any of the tags
func (m *MockTransactionRepository) TaggedTotals(ctx context.Context, userID uuid.UUID, tagsAny []string) ([]*domain.TaggedTotal, error) {
	buckets := make(map[domain.TransactionType]*domain.TaggedTotal)
	for _, transaction := range m.Transactions {
		if transaction.UserID != userID {
			continue
		}
		if len(tagsAny) > 0 && !hasAnyTag(transaction.Tags, tagsAny) {
			continue
		}
		bucket, ok := buckets[transaction.Type]
		if !ok {
			bucket = &domain.TaggedTotal{Type: transaction.Type}
			buckets[transaction.Type] = bucket
		}
		bucket.Total = bucket.Total.Add(transaction.Amount)
	}
	var totals []*domain.TaggedTotal
	for _, bucket := range buckets {
		totals = append(totals, bucket)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Type < totals[j].Type })
	return totals, nil
}

func hasAnyTag(tags, wanted []string) bool {
	for _, tag := range tags {
		for _, want := range wanted {
			if tag == want {
				return true
			}
		}
	}
	return false
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	if transaction.ID == uuid.Nil {
		transaction.ID = uuid.New()
	}
	m.Transactions[transaction.ID] = transaction
}

// catKey identifies a category by its owner-scoped unique key
type catKey struct {
	Type domain.TransactionType
	Name string
}

// MockUploadRepository is a mock implementation of domain.UploadRepository.
// It mirrors the store semantics: name-keyed upserts, resolution against
// pre-existing and batch-created rows, per-row resolution errors.
type MockUploadRepository struct {
	Categories   map[uuid.UUID]map[catKey]bool
	BankAccounts map[uuid.UUID]map[string]bool
	Tags         map[uuid.UUID]map[string]bool
	Inserted     map[uuid.UUID][]*domain.UploadTransaction
	BulkInsertFn func(userID uuid.UUID, batch *domain.UploadBatch) (*domain.BulkInsertResult, error)
}

// NewMockUploadRepository creates a new MockUploadRepository
func NewMockUploadRepository() *MockUploadRepository {
	return &MockUploadRepository{
		Categories:   make(map[uuid.UUID]map[catKey]bool),
		BankAccounts: make(map[uuid.UUID]map[string]bool),
		Tags:         make(map[uuid.UUID]map[string]bool),
		Inserted:     make(map[uuid.UUID][]*domain.UploadTransaction),
	}
}

// BulkInsert applies one batch
func (m *MockUploadRepository) BulkInsert(ctx context.Context, userID uuid.UUID, batch *domain.UploadBatch) (*domain.BulkInsertResult, error) {
	if m.BulkInsertFn != nil {
		return m.BulkInsertFn(userID, batch)
	}

	if m.Categories[userID] == nil {
		m.Categories[userID] = make(map[catKey]bool)
	}
	if m.BankAccounts[userID] == nil {
		m.BankAccounts[userID] = make(map[string]bool)
	}
	if m.Tags[userID] == nil {
		m.Tags[userID] = make(map[string]bool)
	}

	result := &domain.BulkInsertResult{}

	for _, row := range batch.Categories {
		key := catKey{Type: row.Record.Type, Name: row.Record.Name}
		if !m.Categories[userID][key] {
			m.Categories[userID][key] = true
			result.CategoriesInserted++
		}
	}
	for _, row := range batch.BankAccounts {
		if !m.BankAccounts[userID][row.Record.Name] {
			m.BankAccounts[userID][row.Record.Name] = true
			result.BankAccountsInserted++
		}
	}
	for _, row := range batch.Tags {
		if !m.Tags[userID][row.Record.Name] {
			m.Tags[userID][row.Record.Name] = true
			result.TagsInserted++
		}
	}

	for _, row := range batch.Transactions {
		if rowErr := m.resolve(userID, row.Record); rowErr != "" {
			result.TransactionErrors = append(result.TransactionErrors,
				domain.RowError{Index: row.Index, Error: rowErr})
			continue
		}
		m.Inserted[userID] = append(m.Inserted[userID], row.Record)
		result.TransactionsInserted++
	}

	return result, nil
}

func (m *MockUploadRepository) resolve(userID uuid.UUID, record *domain.UploadTransaction) string {
	if record.Category != nil && *record.Category != "" {
		if !m.Categories[userID][catKey{Type: record.Type, Name: *record.Category}] {
			for key := range m.Categories[userID] {
				if key.Name == *record.Category {
					return fmt.Sprintf("category %q exists but not for type %q", *record.Category, string(record.Type))
				}
			}
			return fmt.Sprintf("category %q not found", *record.Category)
		}
	}
	if record.BankAccount != nil && *record.BankAccount != "" {
		if !m.BankAccounts[userID][*record.BankAccount] {
			return fmt.Sprintf("bank account %q not found", *record.BankAccount)
		}
	}
	for _, name := range record.Tags {
		if !m.Tags[userID][name] {
			return fmt.Sprintf("tag %q not found", name)
		}
	}
	return ""
}

// AddCategory seeds a pre-existing category (helper for tests)
func (m *MockUploadRepository) AddCategory(userID uuid.UUID, typ domain.TransactionType, name string) {
	if m.Categories[userID] == nil {
		m.Categories[userID] = make(map[catKey]bool)
	}
	m.Categories[userID][catKey{Type: typ, Name: name}] = true
}

// AddBankAccount seeds a pre-existing bank account (helper for tests)
func (m *MockUploadRepository) AddBankAccount(userID uuid.UUID, name string) {
	if m.BankAccounts[userID] == nil {
		m.BankAccounts[userID] = make(map[string]bool)
	}
	m.BankAccounts[userID][name] = true
}

// AddTag seeds a pre-existing tag (helper for tests)
func (m *MockUploadRepository) AddTag(userID uuid.UUID, name string) {
	if m.Tags[userID] == nil {
		m.Tags[userID] = make(map[string]bool)
	}
	m.Tags[userID][name] = true
}

// MockMaintenanceRepository is a mock implementation of domain.MaintenanceRepository
type MockMaintenanceRepository struct {
	Result  *domain.ResetResult
	ResetFn func(userID uuid.UUID) (*domain.ResetResult, error)
	Calls   []uuid.UUID
}

// NewMockMaintenanceRepository creates a new MockMaintenanceRepository
func NewMockMaintenanceRepository() *MockMaintenanceRepository {
	return &MockMaintenanceRepository{Result: &domain.ResetResult{}}
}

// ResetUserData records the call and returns the configured result
func (m *MockMaintenanceRepository) ResetUserData(ctx context.Context, userID uuid.UUID) (*domain.ResetResult, error) {
	m.Calls = append(m.Calls, userID)
	if m.ResetFn != nil {
		return m.ResetFn(userID)
	}
	return m.Result, nil
}

// MockArchiveRepository is a mock implementation of storage.ArchiveRepository
type MockArchiveRepository struct {
	Stored  map[string][]byte
	StoreFn func(objectPath string, data []byte) (string, error)
}

// NewMockArchiveRepository creates a new MockArchiveRepository
func NewMockArchiveRepository() *MockArchiveRepository {
	return &MockArchiveRepository{Stored: make(map[string][]byte)}
}

// Store records the object
func (m *MockArchiveRepository) Store(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	if m.StoreFn != nil {
		return m.StoreFn(objectPath, buf)
	}
	m.Stored[objectPath] = buf
	return objectPath, nil
}

// Delete removes a stored object
func (m *MockArchiveRepository) Delete(ctx context.Context, objectPath string) error {
	delete(m.Stored, objectPath)
	return nil
}
