package Whatsapp

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	whatsapp_chatbot_golang "github.com/green-api/whatsapp-chatbot-golang"
)

func serviceURL() string {
	return os.Getenv("WHATSAPP_SERVICE_URL")
}

// Listen starts the inbound WhatsApp bot. Incoming messages are only logged;
// the clinic replies manually.
func Listen() {
	bot := whatsapp_chatbot_golang.NewBot(os.Getenv("GREEN_API_INSTANCE_ID"), os.Getenv("GREEN_API_TOKEN"))

	bot.SetStartScene(StartScene{})

	bot.StartReceivingNotifications()
}

type StartScene struct {
}

func (s StartScene) Start(bot *whatsapp_chatbot_golang.Bot) {
	bot.IncomingMessageHandler(func(message *whatsapp_chatbot_golang.Notification) {
		text, _ := message.Text()
		log.Println("whatsapp:", text)
	})
}

// SendMessage delivers one outbound message through the WhatsApp gateway
// service.
func SendMessage(phone, message string) error {
	client := &http.Client{}

	url := serviceURL() + "/send/message"
	data := []byte(fmt.Sprintf(`{"phone": "%s", "message": "%s"}`, phone, message))
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(data))
	if err != nil {
		log.Println(err)
		return err
	}
	req.Header.Add("Content-Type", "application/json")

	res, err := client.Do(req)
	if err != nil {
		log.Println(err)
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		log.Println(err)
		return err
	}
	log.Println("whatsapp gateway response:", string(body))
	return nil
}
