package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Backends de almacenamiento de registros soportados.
const (
	BackendAirtable = "airtable"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	HTTP     HTTPConfig
	Store    StoreConfig
	Airtable AirtableConfig
	DB       DBConfig
	Storage  StorageConfig
	Business BusinessConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// StoreConfig elige dónde viven los registros de negocio.
type StoreConfig struct {
	Backend string // airtable | postgres | memory
}

// AirtableConfig base de datos tipo hoja de cálculo accesible por REST.
// Tables permite renombrar tablas (AIRTABLE_TABLE_LOTS=Achats, etc.).
type AirtableConfig struct {
	APIKey  string
	BaseID  string
	BaseURL string
	Tables  map[string]string
}

// Table devuelve el nombre configurado para la tabla lógica name, o name si no hay override.
func (c AirtableConfig) Table(name string) string {
	if t, ok := c.Tables[name]; ok && t != "" {
		return t
	}
	return name
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	Migrate     bool // aplica las migraciones embebidas al arrancar
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// StorageConfig proveedor de almacenamiento de imágenes (comprobantes de pago, fotos de artículos).
type StorageConfig struct {
	Provider        string // local | googledrive | http
	LocalDir        string // vacío = data URL base64 guardada en el registro
	DriveCredsFile  string
	DriveFolderID   string
	UploadEndpoint  string
	UploadFieldName string
	UploadFields    map[string]string // campos extra del formulario (UPLOAD_EXTRA_FIELDS=upload_preset=abc,folder=preuves)
}

// BusinessConfig reglas de negocio configurables por tienda.
type BusinessConfig struct {
	Currency           string
	ShopName           string
	LowStockThreshold  int
	DefaultCountryCode string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// tablas lógicas que admiten override por env (AIRTABLE_TABLE_<NOMBRE>).
var tableKeys = map[string]string{
	"Articles":     "AIRTABLE_TABLE_ARTICLES",
	"Clients":      "AIRTABLE_TABLE_CLIENTS",
	"Fournisseurs": "AIRTABLE_TABLE_SUPPLIERS",
	"Lots":         "AIRTABLE_TABLE_LOTS",
	"Lignes_Lot":   "AIRTABLE_TABLE_LOT_LINES",
	"Ventes":       "AIRTABLE_TABLE_SALES",
	"Lignes_Vente": "AIRTABLE_TABLE_SALE_LINES",
	"Dettes":       "AIRTABLE_TABLE_DEBTS",
	"Paiements":    "AIRTABLE_TABLE_PAYMENTS",
	"Relances":     "AIRTABLE_TABLE_RELANCES",
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORE_BACKEND, AIRTABLE_API_KEY, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	tables := make(map[string]string, len(tableKeys))
	for logical, key := range tableKeys {
		tables[logical] = getString(v, key, logical)
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "andyshop-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getString(v, "STORE_BACKEND", BackendAirtable)),
		},
		Airtable: AirtableConfig{
			APIKey:  getString(v, "AIRTABLE_API_KEY", ""),
			BaseID:  getString(v, "AIRTABLE_BASE_ID", ""),
			BaseURL: getString(v, "AIRTABLE_BASE_URL", "https://api.airtable.com/v0"),
			Tables:  tables,
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "andyshop"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			Migrate:     getBool(v, "DB_MIGRATE", false),
		},
		Storage: StorageConfig{
			Provider:        strings.ToLower(getString(v, "STORAGE_PROVIDER", "local")),
			LocalDir:        getString(v, "STORAGE_LOCAL_DIR", ""),
			DriveCredsFile:  getString(v, "GDRIVE_CREDENTIALS_FILE", ""),
			DriveFolderID:   getString(v, "GDRIVE_FOLDER_ID", ""),
			UploadEndpoint:  getString(v, "UPLOAD_ENDPOINT", ""),
			UploadFieldName: getString(v, "UPLOAD_FIELD_NAME", "file"),
			UploadFields:    parsePairs(getString(v, "UPLOAD_EXTRA_FIELDS", "")),
		},
		Business: BusinessConfig{
			Currency:           getString(v, "BUSINESS_CURRENCY", "XOF"),
			ShopName:           getString(v, "BUSINESS_SHOP_NAME", "AndyShop"),
			LowStockThreshold:  getInt(v, "BUSINESS_LOW_STOCK_THRESHOLD", 5),
			DefaultCountryCode: getString(v, "BUSINESS_DEFAULT_COUNTRY_CODE", "+225"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendAirtable:
		if c.Airtable.APIKey == "" || c.Airtable.BaseID == "" {
			return fmt.Errorf("config: AIRTABLE_API_KEY y AIRTABLE_BASE_ID son obligatorios con STORE_BACKEND=airtable")
		}
	case BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("config: STORE_BACKEND desconocido %q", c.Store.Backend)
	}
	switch c.Storage.Provider {
	case "local", "googledrive", "http":
	default:
		return fmt.Errorf("config: STORAGE_PROVIDER desconocido %q", c.Storage.Provider)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

// parsePairs interpreta "k=v,k2=v2"; las entradas sin '=' se ignoran.
func parsePairs(raw string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(raw, ",") {
		k, val, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(k) == "" {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(val)
	}
	return out
}
