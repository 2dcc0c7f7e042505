package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/clinica/prontuario-client/internal/model"
)

func pacientesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pacientes",
		Short: "List and create patient records",
	}
	cmd.AddCommand(pacientesListCmd())
	cmd.AddCommand(pacientesCreateCmd())
	return cmd
}

func pacientesListCmd() *cobra.Command {
	var busca, medicoID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visible patients",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if a.ctrl.Sessions().Current().Empty() {
				return fmt.Errorf("nenhuma sessão ativa; faça login primeiro")
			}

			a.ctrl.SetMedico(medicoID)
			a.ctrl.SetSearchTerm(busca)

			<-a.ctrl.Refresh(cmd.Context())
			if state := a.ctrl.State(model.ActionFetchPacientes); state.Phase == model.PhaseFailed {
				return fmt.Errorf("falha ao buscar pacientes: %s", state.Error)
			}

			pacientes := a.ctrl.VisiblePacientes()
			if len(pacientes) == 0 {
				fmt.Println("Nenhum paciente encontrado.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NOME\tTELEFONE\tID")
			for _, p := range pacientes {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Nome, p.Fone, p.ID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&busca, "busca", "", "filter by name, case-insensitive")
	cmd.Flags().StringVar(&medicoID, "medico", "", "clinician id, for the assistant view")
	return cmd
}

func pacientesCreateCmd() *cobra.Command {
	var draft model.DraftPaciente
	var medicoID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a patient record",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if a.ctrl.Sessions().Current().Empty() {
				return fmt.Errorf("nenhuma sessão ativa; faça login primeiro")
			}

			a.ctrl.SetMedico(medicoID)
			a.ctrl.UpdateDraft(draft)

			if errs := a.ctrl.SubmitDraft(cmd.Context()); !errs.Empty() {
				for field, msg := range errs {
					fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
				}
				return fmt.Errorf("paciente não foi criado")
			}

			fmt.Println("Paciente criado.")
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Nome, "nome", "", "patient name")
	cmd.Flags().StringVar(&draft.Fone, "fone", "", "patient phone")
	cmd.Flags().StringVar(&draft.Endereco, "endereco", "", "address")
	cmd.Flags().StringVar(&draft.Prontuario, "prontuario", "", "medical record history")
	cmd.Flags().StringVar(&draft.Remedio, "remedio", "", "medications")
	cmd.Flags().StringVar(&draft.Comorbidade, "comorbidade", "", "comorbidities")
	cmd.Flags().StringVar(&medicoID, "medico", "", "clinician id, for the assistant view")
	return cmd
}
