package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("MailService disabled: Missing SMTP environment variables.")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		Enabled:  enabled,
	}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: ShuLin 通讯员 <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		err := smtp.SendMail(addr, auth, s.From, to, msg)
		if err != nil {
			log.Printf("Failed to send email to %v: %v", to, err)
		}
	}()
}

// SendReplyNotification 评论被回复时给原作者发邮件提醒
func (s *MailService) SendReplyNotification(to, actorName, postTitle, replyContent, postLink string) {
	subject := fmt.Sprintf("%s 回复了您的评论", actorName)
	body := fmt.Sprintf(
		`<p>%s 在《%s》中回复了您：</p><blockquote>%s</blockquote><p><a href="%s">查看对话</a></p>`,
		actorName, postTitle, replyContent, postLink)
	s.sendAsync([]string{to}, subject, body)
}

// SendWelcomeEmail 注册成功的欢迎邮件
func (s *MailService) SendWelcomeEmail(to, username string) {
	subject := "欢迎加入 ShuLin"
	body := fmt.Sprintf(`<p>%s，你好！</p><p>欢迎来到树林，找个版块坐下聊聊吧。</p>`, username)
	s.sendAsync([]string{to}, subject, body)
}
