package auth

import (
	"fmt"
	"net/smtp"
	"os"

	"coaching-app/config"
)

// Swappable so handler tests don't need an SMTP server.
var sendConfirmationEmail = SendConfirmationEmail
var sendPasswordResetEmail = SendPasswordResetEmail

func SendConfirmationEmail(to string, token string) error {
	link := fmt.Sprintf("%s/confirm?confirmation=%s", config.API_HOST, token)
	return sendMail(to, "Confirm Your Account",
		fmt.Sprintf("Click the following link to confirm your account:\n\n%s", link))
}

func SendPasswordResetEmail(to string, link string) error {
	return sendMail(to, "Reset Your Password",
		fmt.Sprintf("Click the following link to reset your password:\n\n%s", link))
}

func sendMail(to, subject, body string) error {
	from := os.Getenv("SMTP_FROM")
	password := os.Getenv("SMTP_PASSWORD")
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")

	auth := smtp.PlainAuth("", from, password, host)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	err := smtp.SendMail(host+":"+port, auth, from, []string{to}, message)
	if err != nil {
		fmt.Println("SMTP error:", err)
	}
	return err
}
