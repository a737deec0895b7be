package app

import (
	"os"
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/karanhb-pixel/grocery-inventory-app/config"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/analysis"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/bills"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/inventory"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/jsonbin"
	"github.com/karanhb-pixel/grocery-inventory-app/internal/store"
)

// Application is the explicit app-state container: it owns the store, the
// aggregates, the sync machinery and the scheduler, constructed once at
// startup and handed to the API layer.
type Application struct {
	appConfig *config.AppConfig

	dataStore *store.Store
	bus       EventBus.Bus
	inv       *inventory.Aggregate
	billBook  *bills.Aggregate
	stats     *analysis.Aggregator

	syncStatus *jsonbin.StatusTracker
	syncClient *jsonbin.Client
	syncMgr    *jsonbin.Manager

	// One pull at a time per collection, so a slow response can never
	// apply its Replace after a newer pull already did.
	invPullMu  sync.Mutex
	billPullMu sync.Mutex

	sched *cron.Cron
}

// The aggregates must keep satisfying what their consumers expect.
var (
	_ bills.ItemDirectory = (*inventory.Aggregate)(nil)
	_ analysis.BillSource = (*bills.Aggregate)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) Inventory() *inventory.Aggregate {
	return a.inv
}

func (a *Application) Bills() *bills.Aggregate {
	return a.billBook
}

func (a *Application) Analysis() *analysis.Aggregator {
	return a.stats
}

func (a *Application) SyncClient() *jsonbin.Client {
	return a.syncClient
}

func (a *Application) SyncStatus() *jsonbin.StatusTracker {
	return a.syncStatus
}

func (a *Application) Init() error {
	cfg := a.appConfig

	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger()

	if err := os.MkdirAll(cfg.System.Workdir, 0o755); err != nil {
		return err
	}

	if err := a.initState(); err != nil {
		return err
	}

	// Connectivity check is advisory: failures are reported through the
	// status tracker, never fatal, never retried.
	go func() {
		if err := a.syncClient.Ping(jsonbin.CollectionInventory); err != nil {
			zap.S().Warnf("inventory bin check: %v", err)
		}
		if err := a.syncClient.Ping(jsonbin.CollectionBills); err != nil {
			zap.S().Warnf("bills bin check: %v", err)
		}
	}()

	a.initJob()
	return nil
}

// initState opens the local store and wires the aggregates and sync
// machinery together.
func (a *Application) initState() error {
	cfg := a.appConfig

	var err error
	a.dataStore, err = store.Open(cfg.StoragePath())
	if err != nil {
		return err
	}
	zap.S().Infof("local store opened at %s", cfg.StoragePath())

	a.bus = EventBus.New()
	a.inv = inventory.New(a.dataStore, a.bus)
	a.billBook = bills.New(a.dataStore, a.inv, a.bus)
	a.stats = analysis.New(a.billBook)

	// Hydrate both aggregates from local storage before anything else runs.
	a.inv.Hydrate()
	a.billBook.Hydrate()

	a.syncStatus = jsonbin.NewStatusTracker()
	a.syncClient = jsonbin.NewClient(cfg.Sync, a.syncStatus)
	a.syncMgr, err = jsonbin.NewManager(
		a.syncClient,
		a.bus,
		time.Duration(cfg.Sync.DebounceSec)*time.Second,
		a.inv.Items,
		a.billBook.Bills,
	)
	return err
}

// PullInventory loads the remote inventory snapshot and wholesale-replaces
// the local collection and counter, then persists locally.
func (a *Application) PullInventory() (int, error) {
	a.invPullMu.Lock()
	defer a.invPullMu.Unlock()
	items, err := a.syncClient.PullItems()
	if err != nil {
		return 0, err
	}
	a.inv.Replace(items)
	return len(items), nil
}

// PullBills is the bills counterpart of PullInventory.
func (a *Application) PullBills() (int, error) {
	a.billPullMu.Lock()
	defer a.billPullMu.Unlock()
	pulled, err := a.syncClient.PullBills()
	if err != nil {
		return 0, err
	}
	a.billBook.Replace(pulled)
	return len(pulled), nil
}

// PushInventory sends the current snapshot immediately, bypassing the
// debounce window (the manual "sync now" action).
func (a *Application) PushInventory() error {
	return a.syncClient.Push(jsonbin.CollectionInventory, a.inv.Items())
}

func (a *Application) PushBills() error {
	return a.syncClient.Push(jsonbin.CollectionBills, a.billBook.Bills())
}

// ClearAll wipes both collections from memory and local storage.
func (a *Application) ClearAll() {
	a.inv.Clear()
	a.billBook.Clear()
	zap.S().Warn("all local data cleared")
}

func (a *Application) initLogger() {
	cfg := a.appConfig

	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}
	zap.ReplaceGlobals(logger)
}

// Release flushes pending sync work and closes resources.
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.syncMgr != nil {
		a.syncMgr.Stop()
	}
	if a.dataStore != nil {
		_ = a.dataStore.Close()
	}
	_ = zap.L().Sync()
}
