package worker

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// CampaignCompletionWorker fecha campanhas cujo ledger não tem mais
// mensagens pendentes. O webhook só atualiza linhas individuais; alguém
// precisa olhar o conjunto e marcar a campanha como concluída.
type CampaignCompletionWorker struct {
	db           *sql.DB
	tickInterval time.Duration
}

func NewCampaignCompletionWorker(db *sql.DB) *CampaignCompletionWorker {
	return &CampaignCompletionWorker{
		db:           db,
		tickInterval: 1 * time.Minute,
	}
}

func (w *CampaignCompletionWorker) Start(ctx context.Context) {
	log.Println("🕒 Campaign Completion Worker iniciado")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.completeFinished(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Campaign Completion Worker encerrado")
			return
		case <-ticker.C:
			w.completeFinished(ctx)
		}
	}
}

func (w *CampaignCompletionWorker) completeFinished(ctx context.Context) {
	query := `
		UPDATE campaigns
		SET
			status = 'completed',
			completed_at = NOW()
		WHERE
			status = 'sending'
			AND NOT EXISTS (
				SELECT 1 FROM campaign_contacts cc
				WHERE cc.campaign_id = campaigns.id
				  AND cc.status IN ('pending', 'processing')
			)
		RETURNING id, name
	`

	rows, err := w.db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("❌ [COMPLETION] Erro ao fechar campanhas: %v", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			log.Printf("❌ [COMPLETION] Erro ao ler campanha: %v", err)
			return
		}
		log.Printf("🏁 Campanha concluída: %s (%s)", name, id)
	}
}
