package deps

import (
	"context"
	"sync"
	"time"

	"resetpass/internal/config"
	"resetpass/internal/core/domain/account"
	dl "resetpass/internal/core/domain/logging"
	"resetpass/internal/core/domain/notification"
	drl "resetpass/internal/core/domain/rate_limiter"
	"resetpass/internal/core/domain/token"
	duow "resetpass/internal/core/domain/unit_of_work"
	dbaccount "resetpass/internal/db/account"
	dbtoken "resetpass/internal/db/token"
	uow "resetpass/internal/db/unit_of_work"
	"resetpass/internal/implementations/email"
	"resetpass/internal/implementations/logging"
	passwordhasher "resetpass/internal/implementations/password_hasher"
	passwordpolicy "resetpass/internal/implementations/password_policy"
	ratelimiter "resetpass/internal/implementations/rate_limiter"
	tokengenerator "resetpass/internal/implementations/token_generator"
	"resetpass/internal/rabbitmq"
	credentialevents "resetpass/internal/rabbitmq/publishers/credential_events"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB       *pgxpool.Pool
	Redis    *redis.Client
	Rabbitmq *rabbitmq.Connection

	Now func() time.Time

	UnitOfWork        duow.UnitOfWork
	AccountRepository account.Repository
	TokenRepository   token.Repository

	RateLimiter drl.RateLimiter

	TokenGenerator token.Generator
	PasswordHasher account.PasswordHasher
	PasswordPolicy account.PasswordPolicy

	EmailSender *email.TokenSender
	Notifier    notification.Notifier
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()
	closeRabbitmqConn := deps.initRabbitmqConnection()

	deps.Now = func() time.Time { return time.Now().UTC() }

	deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB)
	deps.AccountRepository = dbaccount.NewPgxRepository(deps.DB)
	deps.TokenRepository = dbtoken.NewPgxRepository(deps.DB)
	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)

	deps.initTokenGenerator()
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.PasswordPolicy = passwordpolicy.New(deps.Config.PasswordMinLength)

	deps.EmailSender = email.NewTokenSender(
		deps.AwsConfig,
		deps.Config.EmailSender,
		deps.Config.ResetEmailTemplate,
		deps.Config.ResetPageBaseURL,
	)

	closeCredentialEvents := deps.initNotifier()

	return deps, func() {
		closeFuncs := []func(){
			closeCredentialEvents,
			closeRabbitmqConn,
			closeRedisClient,
			closePgxPool,
			closeLogger,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("", "", ""),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger()
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}

func (deps *Deps) initRabbitmqConnection() func() {
	if deps.Config.RabbitmqURL == "" {
		deps.Logger.Info(context.Background(), "RabbitMQ is disabled.")
		return func() {}
	}
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	}
}

func (deps *Deps) initTokenGenerator() {
	generator, err := tokengenerator.New(
		tokengenerator.Kind(deps.Config.TokenGenerator),
		tokengenerator.Options{
			MinLength: deps.Config.TokenMinLength,
			MaxLength: deps.Config.TokenMaxLength,
			MinNumber: int64(deps.Config.TokenMinNumber),
			MaxNumber: int64(deps.Config.TokenMaxNumber),
		},
	)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create token generator.", dl.Entry("err", err))
		panic(err)
	}
	deps.TokenGenerator = generator
}

// initNotifier assembles the notification fan-out: token delivery over SES
// email and credential change events over RabbitMQ when it is configured.
func (deps *Deps) initNotifier() func() {
	senders := []notification.TokenSender{deps.EmailSender}
	listeners := []notification.CredentialChangeListener{}

	closeChannel := func() {}
	if deps.Rabbitmq != nil {
		rabbitmqChannel, err := deps.Rabbitmq.Channel()
		if err != nil {
			deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
			panic(err)
		}
		err = rabbitmqChannel.ExchangeDeclare(
			deps.Config.CredentialEventsExchange,
			"topic",
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			deps.Logger.Error(context.Background(), "Could not create RabbitMQ exchange.", dl.Entry("err", err))
			panic(err)
		}
		listeners = append(listeners, credentialevents.NewRabbitMQ(
			deps.Logger,
			rabbitmqChannel,
			deps.Config.CredentialEventsExchange,
			deps.Config.CredentialEventsRoutingKey,
			deps.Now,
		))
		closeChannel = func() {
			deps.Logger.Info(context.Background(), "Shutting down credential events publisher.")
			rabbitmqChannel.Close()
			deps.Logger.Info(context.Background(), "Credential events publisher shut down.")
		}
	}

	deps.Notifier = notification.NewDispatcher(senders, listeners)
	return closeChannel
}
