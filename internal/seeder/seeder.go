package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/avestra/bank-analytics/internal/model"
	"github.com/avestra/bank-analytics/internal/repository"
	"github.com/avestra/bank-analytics/pkg/logger"
	"github.com/avestra/bank-analytics/pkg/pg"
	"github.com/avestra/bank-analytics/pkg/worker"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Config controls how much synthetic data a run produces.
type Config struct {
	Branches     int
	Customers    int
	Days         int
	Workers      int
	RandomSource int64
}

var branchNames = []string{
	"Downtown", "Uptown", "Harbor", "Riverside", "Airport",
	"Old Town", "Tech Park", "Central", "Lakeside", "Hillcrest",
}

var regions = []string{"North", "South", "East", "West"}

var segments = []string{"Retail", "Wealth Management", "Small Business"}

var firstNames = []string{
	"Ada", "Bob", "Carol", "Dan", "Eve", "Frank", "Grace", "Heidi",
	"Ivan", "Judy", "Ken", "Laura", "Mallory", "Niaj", "Olivia", "Peggy",
}

var lastNames = []string{
	"Smith", "Jones", "Brown", "Taylor", "Wilson", "Davies",
	"Evans", "Thomas", "Khan", "Patel", "Nguyen", "Garcia",
}

var spendCategories = []string{
	"Groceries", "Dining", "Transport", "Utilities", "Rent",
	"Entertainment", "Healthcare", "Shopping",
}

var merchants = []string{
	"MegaMart", "Cafe One", "Metro Transit", "City Power",
	"Streamly", "Corner Pharmacy", "Fashion Hub", "Fresh Foods",
}

// Seeder fills the warehouse with a synthetic but internally consistent
// data set: every transaction belongs to an open account, and every
// daily balance is the running sum of that account's history.
type Seeder struct {
	cfg          Config
	branchRepo   *repository.BranchRepository
	customerRepo *repository.CustomerRepository
	accountRepo  *repository.AccountRepository
	txnRepo      *repository.TransactionRepository
	balanceRepo  *repository.DailyBalanceRepository
	dateRepo     *repository.DateDimRepository
}

func New(db *pg.DB, cfg Config) *Seeder {
	if cfg.Branches <= 0 {
		cfg.Branches = 5
	}
	if cfg.Customers <= 0 {
		cfg.Customers = 50
	}
	if cfg.Days <= 0 {
		cfg.Days = 30
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Seeder{
		cfg:          cfg,
		branchRepo:   repository.NewBranchRepository(db),
		customerRepo: repository.NewCustomerRepository(db),
		accountRepo:  repository.NewAccountRepository(db),
		txnRepo:      repository.NewTransactionRepository(db),
		balanceRepo:  repository.NewDailyBalanceRepository(db),
		dateRepo:     repository.NewDateDimRepository(db),
	}
}

type accountJob struct {
	account *model.Account
	seed    int64
}

func (s *Seeder) Run(ctx context.Context) error {
	runID := uuid.NewString()
	logger.Info("seed run starting", "run_id", runID,
		"branches", s.cfg.Branches, "customers", s.cfg.Customers, "days", s.cfg.Days)

	if err := s.seedCalendar(ctx); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(s.cfg.RandomSource))

	branches, err := s.seedBranches(ctx, rng)
	if err != nil {
		return err
	}

	accounts, err := s.seedCustomersAndAccounts(ctx, rng, branches)
	if err != nil {
		return err
	}

	// Fan transaction/balance generation out over the pool, one job per
	// account.
	var (
		mu       sync.Mutex
		firstErr error
	)

	pool := worker.NewPool(len(accounts), s.cfg.Workers)
	pool.SetHandler(func(workerIndex int, job interface{}) {
		j := job.(*accountJob)
		if err := s.seedAccountHistory(ctx, j); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	})
	pool.Start()

	for i, acc := range accounts {
		pool.Enqueue(&accountJob{account: acc, seed: s.cfg.RandomSource + int64(i)})
	}
	pool.Close()

	if firstErr != nil {
		return firstErr
	}

	logger.Info("seed run finished", "run_id", runID, "accounts", len(accounts))
	return nil
}

// seedCalendar populates one year back and one year forward so every
// report range falls inside the dimension.
func (s *Seeder) seedCalendar(ctx context.Context) error {
	today := model.DateOnly(time.Now())
	exists, err := s.dateRepo.Exists(ctx, today)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = s.dateRepo.PopulateRange(ctx, today.AddDate(0, 0, -365), today.AddDate(0, 0, 365))
	return err
}

func (s *Seeder) seedBranches(ctx context.Context, rng *rand.Rand) ([]*model.Branch, error) {
	branches := make([]*model.Branch, 0, s.cfg.Branches)
	for i := 0; i < s.cfg.Branches; i++ {
		region := regions[rng.Intn(len(regions))]
		b, err := s.branchRepo.Create(ctx, &model.Branch{
			Name:   branchNames[i%len(branchNames)],
			Code:   fmt.Sprintf("BR-%04d", i+1),
			Region: &region,
		})
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, nil
}

func (s *Seeder) seedCustomersAndAccounts(ctx context.Context, rng *rand.Rand, branches []*model.Branch) ([]*model.Account, error) {
	var accounts []*model.Account
	for i := 0; i < s.cfg.Customers; i++ {
		first := firstNames[rng.Intn(len(firstNames))]
		last := lastNames[rng.Intn(len(lastNames))]
		score := model.CreditScoreMin + rng.Intn(model.CreditScoreMax-model.CreditScoreMin+1)
		segment := segments[rng.Intn(len(segments))]

		c, err := s.customerRepo.Create(ctx, &model.Customer{
			FullName:    first + " " + last,
			Email:       fmt.Sprintf("%s.%s.%d@example.com", first, last, i+1),
			CreditScore: &score,
			Segment:     &segment,
		})
		if err != nil {
			return nil, err
		}

		// one or two accounts each
		n := 1 + rng.Intn(2)
		for k := 0; k < n; k++ {
			accType := model.AccountTypeChecking
			if rng.Intn(2) == 0 {
				accType = model.AccountTypeSavings
			}
			acc, err := s.accountRepo.Create(ctx, &model.Account{
				CustomerID: c.ID,
				BranchID:   branches[rng.Intn(len(branches))].ID,
				Number:     accountNumber(),
				Type:       accType,
				Active:     true,
			})
			if err != nil {
				return nil, err
			}
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

// seedAccountHistory writes cfg.Days of transactions and the matching
// daily balance snapshots for one account. Each job carries its own
// random source so workers do not share state.
func (s *Seeder) seedAccountHistory(ctx context.Context, j *accountJob) error {
	rng := rand.New(rand.NewSource(j.seed))
	today := model.DateOnly(time.Now())
	start := today.AddDate(0, 0, -(s.cfg.Days - 1))

	running := decimal.NewFromInt(int64(1000 + rng.Intn(9000)))

	var (
		txns     []*model.Transaction
		balances []*model.DailyBalance
	)

	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		for _, txn := range dailyTransactions(rng, j.account.ID, day) {
			running = running.Add(decimal.NewFromFloat(txn.Amount))
			txns = append(txns, txn)
		}
		balances = append(balances, &model.DailyBalance{
			AccountID:     j.account.ID,
			Date:          day,
			EndingBalance: running.InexactFloat64(),
		})
	}

	if len(txns) > 0 {
		if _, err := s.txnRepo.BulkCreate(ctx, txns); err != nil {
			return err
		}
	}
	_, err := s.balanceRepo.BulkCreate(ctx, balances)
	return err
}

// dailyTransactions generates zero to three spends for a day, plus a
// salary credit on the first of the month.
func dailyTransactions(rng *rand.Rand, accountID int64, day time.Time) []*model.Transaction {
	var txns []*model.Transaction

	if day.Day() == 1 {
		txns = append(txns, &model.Transaction{
			AccountID: accountID,
			Amount:    2500 + float64(rng.Intn(2500)),
			Category:  "Salary",
			Timestamp: day.Add(9 * time.Hour),
		})
	}

	n := rng.Intn(4)
	for i := 0; i < n; i++ {
		idx := rng.Intn(len(spendCategories))
		merchant := merchants[idx%len(merchants)]
		amount := -(1 + rng.Float64()*199)
		txns = append(txns, &model.Transaction{
			AccountID: accountID,
			Amount:    float64(int(amount*100)) / 100,
			Category:  spendCategories[idx],
			Merchant:  &merchant,
			Timestamp: day.Add(time.Duration(8+rng.Intn(12)) * time.Hour),
		})
	}
	return txns
}

func accountNumber() string {
	return "ACC-" + uuid.NewString()[:8]
}
