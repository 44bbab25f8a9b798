package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/FawadAli-1/xautomation-backend/domain/apperrors"
	"github.com/FawadAli-1/xautomation-backend/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App        App        `json:"app"`
	Generation Generation `json:"generation"`
	Twitter    Twitter    `json:"twitter"`
	Scheduler  Scheduler  `json:"scheduler"`
	Database   Database   `json:"database"`
	Redis      Redis      `json:"redis"`
}

type App struct {
	Port           int      `json:"port"`
	SecretKey      string   `json:"secretKey"`
	AllowedOrigins []string `json:"allowedOrigins"`
}

// Generation selects and configures the text-generation backend.
type Generation struct {
	Provider string `json:"provider"` // groq | gemini
	Groq     Groq   `json:"groq"`
	Gemini   Gemini `json:"gemini"`
}

type Groq struct {
	APIKey string `json:"apiKey"`
	Model  string `json:"model"`
}

type Gemini struct {
	APIKey string `json:"apiKey"`
	Model  string `json:"model"`
}

// Twitter holds the four user-context credentials; all are required.
type Twitter struct {
	AppKey       string `json:"appKey"`
	AppSecret    string `json:"appSecret"`
	AccessToken  string `json:"accessToken"`
	AccessSecret string `json:"accessSecret"`
}

type Scheduler struct {
	PostsPerDay           int `json:"postsPerDay"`
	MaxTweetLength        int `json:"maxTweetLength"`
	TickSeconds           int `json:"tickSeconds"`
	PublishTimeoutSeconds int `json:"publishTimeoutSeconds"`
	BatchSize             int `json:"batchSize"`
}

type Database struct {
	Store string `json:"store"` // postgres | mongo
	Psql  Db     `json:"psql"`
	Mongo Db     `json:"mongo"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type Redis struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

var C Config

// LoadConfig reads the JSON config file (if present), applies environment
// overrides and fills defaults. Call after LoadEnvFromFile so file-provided
// env vars take part in the override pass.
func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}

	initApp(&C)
	initGeneration(&C)
	initTwitter(&C)
	initScheduler(&C)
	initDatabase(&C)
	initRedis(&C)
	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 5000
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 5000
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		C.App.AllowedOrigins = origins
	}
	if len(C.App.AllowedOrigins) == 0 {
		C.App.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; admin endpoints will reject every token. Provide SECRET_KEY via environment.")
	}
}

func initGeneration(C *Config) {
	if v := os.Getenv("GENERATION_PROVIDER"); v != "" {
		C.Generation.Provider = strings.ToLower(v)
	}
	if C.Generation.Provider == "" {
		C.Generation.Provider = "groq"
	}
	if C.Generation.Groq.APIKey == "" {
		C.Generation.Groq.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if C.Generation.Groq.Model == "" {
		C.Generation.Groq.Model = "llama-3.3-70b-versatile"
	}
	if C.Generation.Gemini.APIKey == "" {
		C.Generation.Gemini.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if C.Generation.Gemini.Model == "" {
		if v := os.Getenv("GOOGLE_MODEL"); v != "" {
			C.Generation.Gemini.Model = v
		} else {
			C.Generation.Gemini.Model = "gemini-2.0-flash"
		}
	}
}

func initTwitter(C *Config) {
	if C.Twitter.AppKey == "" {
		C.Twitter.AppKey = os.Getenv("TWITTER_APP_KEY")
	}
	if C.Twitter.AppSecret == "" {
		C.Twitter.AppSecret = os.Getenv("TWITTER_APP_SECRET")
	}
	if C.Twitter.AccessToken == "" {
		C.Twitter.AccessToken = os.Getenv("TWITTER_ACCESS_TOKEN")
	}
	if C.Twitter.AccessSecret == "" {
		C.Twitter.AccessSecret = os.Getenv("TWITTER_ACCESS_SECRET")
	}
}

func initScheduler(C *Config) {
	if v := os.Getenv("POSTS_PER_DAY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			C.Scheduler.PostsPerDay = n
		}
	}
	if C.Scheduler.PostsPerDay <= 0 {
		C.Scheduler.PostsPerDay = 16
	}
	// Slot times are truncated to the hour, so more than 24 posts per day
	// would collapse onto duplicate slots.
	if C.Scheduler.PostsPerDay > 24 {
		C.Scheduler.PostsPerDay = 24
	}
	if v := os.Getenv("MAX_TWEET_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			C.Scheduler.MaxTweetLength = n
		}
	}
	if C.Scheduler.MaxTweetLength <= 0 {
		C.Scheduler.MaxTweetLength = 280
	}
	if C.Scheduler.TickSeconds <= 0 {
		C.Scheduler.TickSeconds = 60
	}
	if C.Scheduler.PublishTimeoutSeconds <= 0 {
		C.Scheduler.PublishTimeoutSeconds = 30
	}
	if C.Scheduler.BatchSize <= 0 {
		C.Scheduler.BatchSize = 50
	}
}

func initDatabase(C *Config) {
	if v := os.Getenv("DB_STORE"); v != "" {
		C.Database.Store = strings.ToLower(v)
	}
	if C.Database.Store == "" {
		C.Database.Store = "postgres"
	}
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = os.Getenv("DB_PORT")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = "localhost"
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = "5432"
	}
	if C.Database.Mongo.Host == "" {
		C.Database.Mongo.Host = os.Getenv("MONGO_HOST")
	}
	if C.Database.Mongo.Port == "" {
		C.Database.Mongo.Port = os.Getenv("MONGO_PORT")
	}
	if C.Database.Mongo.User == "" {
		C.Database.Mongo.User = os.Getenv("MONGO_USER")
	}
	if C.Database.Mongo.Password == "" {
		C.Database.Mongo.Password = os.Getenv("MONGO_PASSWORD")
	}
	if C.Database.Mongo.Name == "" {
		C.Database.Mongo.Name = os.Getenv("MONGO_DB_NAME")
	}
}

func initRedis(C *Config) {
	if C.Redis.Host == "" {
		C.Redis.Host = os.Getenv("REDIS_HOST")
	}
	if C.Redis.Port == "" {
		C.Redis.Port = os.Getenv("REDIS_PORT")
	}
	if C.Redis.Username == "" {
		C.Redis.Username = os.Getenv("REDIS_USERNAME")
	}
	if C.Redis.Password == "" {
		C.Redis.Password = os.Getenv("REDIS_PASSWORD")
	}
}

// ValidateTwitter checks the four required publication credentials. A missing
// one is a ConfigurationError and the process must not start serving.
func ValidateTwitter(t Twitter) error {
	required := map[string]string{
		"TWITTER_APP_KEY":       t.AppKey,
		"TWITTER_APP_SECRET":    t.AppSecret,
		"TWITTER_ACCESS_TOKEN":  t.AccessToken,
		"TWITTER_ACCESS_SECRET": t.AccessSecret,
	}
	for name, value := range required {
		if value == "" {
			return apperrors.NewConfigurationError(fmt.Sprintf("%s is not defined in environment variables", name))
		}
	}
	return nil
}

// Mask truncates a secret for startup logging.
func Mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "..."
}
