package service

import (
	"board-backend/config"
	"board-backend/internal/util"
	"crypto/tls"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// EmailService 负责发送通知邮件
type EmailService struct {
	smtpHost string
	smtpPort int
	username string
	password string
}

func NewEmailService() *EmailService {
	return &EmailService{
		smtpHost: config.AppConfig.SMTPHost,
		smtpPort: config.AppConfig.SMTPPort,
		username: config.AppConfig.SMTPUsername,
		password: config.AppConfig.SMTPPassword,
	}
}

// Enabled 判断 SMTP 是否已配置
func (s *EmailService) Enabled() bool {
	return s.smtpHost != "" && s.username != ""
}

// SendWelcomeEmail 异步发送注册欢迎邮件，失败只记录日志
func (s *EmailService) SendWelcomeEmail(email, userID string) {
	subject := "欢迎加入"
	body := fmt.Sprintf("亲爱的 %s，\n\n您的账号已注册成功，欢迎来到社区。\n\n%s",
		userID, config.AppConfig.FrontendURL)

	s.sendEmailAsync(email, subject, body)
}

func (s *EmailService) sendEmailAsync(to, subject, body string) {
	go func() {
		if err := s.sendEmail(to, subject, body); err != nil {
			util.Logger.Error("异步发送邮件失败", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) sendEmail(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.TLSConfig = &tls.Config{ServerName: s.smtpHost}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	util.Logger.Info("邮件发送成功", zap.String("to", to))
	return nil
}
