package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
}

// Social is the aggregate configuration for the social facade.
// Market is the only required section; every other section gates whether
// the corresponding client gets constructed.
type Social struct {
	Twitter *Twitter
	Discord *Discord
	Market  *Market
	Redis   *Redis
}

// Twitter holds the microblog credential bundle plus behavioral knobs.
// Unset knobs default to zero; the client treats zero as "disabled".
type Twitter struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
	BearerToken       string

	DryRun        bool
	MaxRetries    int
	RetryDelay    time.Duration
	MaxEmojis     int
	MaxHashtags   int
	MinInterval   time.Duration
	TrackedTokens []string
}

// Discord holds the chat platform access token and target guild.
type Discord struct {
	Token   string
	GuildID string
}

// Market configures the market-data subsystem. APIKey is mandatory.
type Market struct {
	APIKey          string
	TokenListURL    string
	WalletPublicKey string
}

// Redis configures the cache connection.
type Redis struct {
	Host           string
	Port           int
	Password       string
	KeyPrefix      string
	CircuitBreaker bool
}

// Addr returns the host:port dial address.
func (r *Redis) Addr() string {
	return r.Host + ":" + strconv.Itoa(r.Port)
}

// Environment fallbacks, used only when a value is not supplied through
// configuration. None of these are required by this layer.

func RedisHost() string {
	return getEnv("REDIS_HOST", "localhost")
}

func RedisPort() int {
	port, err := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	if err != nil {
		return 6379
	}
	return port
}

func RedisPassword() string {
	return os.Getenv("REDIS_PASSWORD")
}

func RPCEndpoint() string {
	return getEnv("RPC_ENDPOINT", "https://api.mainnet-beta.solana.com")
}

func WalletPublicKey() string {
	return os.Getenv("WALLET_PUBLIC_KEY")
}

func MarketAPIKey() string {
	return os.Getenv("BIRDEYE_API_KEY")
}

func OpenAIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func NATSURL() string {
	return getEnv("NATS_URL", "nats://localhost:4222")
}

func ServerAddr() string {
	return getEnv("SERVER_ADDR", ":3000")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
