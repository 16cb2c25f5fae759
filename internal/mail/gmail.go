// Package mail implementa el acceso a Gmail: búsqueda de los correos de
// pedidos, etiquetado del resultado y marcado de leído.
package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	// LabelProcessed marca los hilos ya volcados a la planilla.
	LabelProcessed = "PROCESSED_VENTAS"
	// LabelSkipped marca los hilos descartados por moneda no soportada.
	LabelSkipped = "SKIPPED"

	user = "me"
)

// Message es la vista mínima de un correo que consume el orquestador.
type Message struct {
	ID       string
	ThreadID string
	Subject  string
	Body     string
}

// Client encapsula las llamadas a la API de Gmail sobre la casilla autenticada.
type Client struct {
	svc      *gmail.Service
	labelIDs map[string]string
}

// NewClient crea el cliente de Gmail con el archivo de credenciales indicado.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	svc, err := gmail.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gmail.GmailModifyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	return &Client{
		svc:      svc,
		labelIDs: make(map[string]string),
	}, nil
}

// BuildQueries arma las dos búsquedas (plantilla en español y en inglés) con
// la marca de agua y la exclusión de las etiquetas de resultado. La marca de
// agua es la fecha por debajo de la cual la casilla nunca se reprocesa.
func BuildQueries(watermark string) [2]string {
	base := fmt.Sprintf("after:%s -label:%s -label:%s", watermark, LabelSkipped, LabelProcessed)
	return [2]string{
		base + ` subject:"Nuevo pedido:"`,
		base + ` (subject:"New order:" OR subject:"You've got a new order")`,
	}
}

// Search devuelve los mensajes que coinciden con la consulta, con el asunto y
// el cuerpo de texto plano ya decodificados.
func (c *Client) Search(ctx context.Context, query string) ([]Message, error) {
	var out []Message

	call := c.svc.Users.Messages.List(user).Q(query)
	err := call.Pages(ctx, func(resp *gmail.ListMessagesResponse) error {
		for _, ref := range resp.Messages {
			full, err := c.svc.Users.Messages.Get(user, ref.Id).Format("full").Context(ctx).Do()
			if err != nil {
				return fmt.Errorf("get message %s: %w", ref.Id, err)
			}
			out = append(out, Message{
				ID:       full.Id,
				ThreadID: full.ThreadId,
				Subject:  header(full.Payload, "Subject"),
				Body:     PlainBody(full.Payload),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	return out, nil
}

// AddLabel aplica la etiqueta al hilo, creándola en la casilla si todavía no existe.
func (c *Client) AddLabel(ctx context.Context, threadID, label string) error {
	id, err := c.labelID(ctx, label)
	if err != nil {
		return err
	}

	_, err = c.svc.Users.Threads.Modify(user, threadID, &gmail.ModifyThreadRequest{
		AddLabelIds: []string{id},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("label thread %s with %s: %w", threadID, label, err)
	}
	return nil
}

// MarkRead quita la marca de no leído del mensaje.
func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	_, err := c.svc.Users.Messages.Modify(user, messageID, &gmail.ModifyMessageRequest{
		RemoveLabelIds: []string{"UNREAD"},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("mark message %s read: %w", messageID, err)
	}
	return nil
}

func (c *Client) labelID(ctx context.Context, name string) (string, error) {
	if id, ok := c.labelIDs[name]; ok {
		return id, nil
	}

	list, err := c.svc.Users.Labels.List(user).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("list labels: %w", err)
	}
	for _, l := range list.Labels {
		if l.Name == name {
			c.labelIDs[name] = l.Id
			return l.Id, nil
		}
	}

	created, err := c.svc.Users.Labels.Create(user, &gmail.Label{Name: name}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create label %s: %w", name, err)
	}
	c.labelIDs[name] = created.Id
	return created.Id, nil
}

func header(payload *gmail.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// PlainBody extrae el cuerpo de texto plano del mensaje, recorriendo las
// partes MIME en profundidad y decodificando base64url.
func PlainBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	if payload.MimeType == "text/plain" && payload.Body != nil && payload.Body.Data != "" {
		decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(payload.Body.Data)
		if err != nil {
			return ""
		}
		return string(decoded)
	}

	for _, part := range payload.Parts {
		if body := PlainBody(part); body != "" {
			return body
		}
	}

	return ""
}
