package service

import (
	"fmt"

	"ledger/config"
	"ledger/models"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendPeriodClosedEmail 发送结账完成通知邮件
func (s *EmailService) SendPeriodClosedEmail(period *models.ClosedPeriod) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用，请配置 email.enabled=true")
	}
	if s.cfg.NotifyTo == "" {
		return fmt.Errorf("未配置结账通知收件人")
	}

	subject := fmt.Sprintf("【记账系统】期间 %s 已结账", period.YearMonth)
	body := s.generatePeriodClosedBody(period)

	return s.sendEmail(s.cfg.NotifyTo, subject, body)
}

// generatePeriodClosedBody 生成结账通知邮件内容
func (s *EmailService) generatePeriodClosedBody(period *models.ClosedPeriod) string {
	notes := period.Notes
	if notes == "" {
		notes = "（无）"
	}
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .period-box { background: linear-gradient(135deg, #eff6ff, #dbeafe); border: 2px dashed #2563eb; border-radius: 12px; padding: 30px; text-align: center; margin: 30px 0; }
        .period { font-size: 36px; font-weight: bold; color: #1d4ed8; letter-spacing: 4px; font-family: 'Courier New', monospace; }
        .warning { background: #fff3cd; border-left: 4px solid #ffc107; padding: 15px; margin: 20px 0; border-radius: 4px; }
        .warning p { margin: 0; color: #856404; font-size: 14px; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 记账系统</h1>
        </div>
        <div class="content">
            <p>以下期间已由 <strong>%s</strong> 于 %s 完成结账：</p>
            <div class="period-box">
                <span class="period">%s</span>
            </div>
            <p>备注：%s</p>
            <div class="warning">
                <p>⚠️ 该期间及之前月份的交易已锁定，不可再修改。</p>
                <p>⚠️ 如需更正，请在系统中执行反结账并填写原因。</p>
            </div>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
            <p>© 记账系统 - 小微企业复式记账</p>
        </div>
    </div>
</body>
</html>
`, period.ClosedBy, period.ClosedAt.Format("2006-01-02 15:04:05"), period.YearMonth, notes)
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}
