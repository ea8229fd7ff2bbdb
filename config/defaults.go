package config

// DefaultConfigYAML 内置默认配置
// 外部 config.yaml 或 LEDGER_ 前缀环境变量可覆盖其中任意项
var DefaultConfigYAML = []byte(`server:
  port: ":8080"
  mode: "debug"
  base_url: "http://localhost:8080"

database:
  host: "127.0.0.1"
  port: "3306"
  username: "ledger"
  password: "ledger"
  dbname: "ledger"
  charset: "utf8mb4"

jwt:
  secret: "change-me-in-production"
  expire_hours: 24

email:
  enabled: false
  host: "smtp.example.com"
  port: 465
  username: ""
  password: ""
  from: "ledger"
  notify_to: ""

banksync:
  enabled: false
  schedule: "0 0 3 * * *"
  base_url: ""
  token: ""
  import_account_id: 0
`)
