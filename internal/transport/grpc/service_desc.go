package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "sasb.v1.AppointmentsService"

type AppointmentsServiceServer interface {
	CreateAppointment(ctx context.Context, req *CreateAppointmentRequest) (*AppointmentResponse, error)
	UpdateAppointment(ctx context.Context, req *UpdateAppointmentRequest) (*AppointmentResponse, error)
	CancelAppointment(ctx context.Context, req *AppointmentIDRequest) (*AppointmentResponse, error)
	CompleteAppointment(ctx context.Context, req *AppointmentIDRequest) (*AppointmentResponse, error)
	GetAppointment(ctx context.Context, req *AppointmentIDRequest) (*AppointmentResponse, error)
	ListAppointments(ctx context.Context, req *ListAppointmentsRequest) (*ListAppointmentsResponse, error)
}

func RegisterAppointmentsServiceServer(s grpc.ServiceRegistrar, srv AppointmentsServiceServer) {
	s.RegisterService(&appointmentsServiceDesc, srv)
}

// FullMethod returns the invocation path for method, e.g. for conn.Invoke.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unaryHandler[Req any, Resp any](method string, call func(AppointmentsServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AppointmentsServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AppointmentsServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var appointmentsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AppointmentsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("CreateAppointment", AppointmentsServiceServer.CreateAppointment),
		unaryHandler("UpdateAppointment", AppointmentsServiceServer.UpdateAppointment),
		unaryHandler("CancelAppointment", AppointmentsServiceServer.CancelAppointment),
		unaryHandler("CompleteAppointment", AppointmentsServiceServer.CompleteAppointment),
		unaryHandler("GetAppointment", AppointmentsServiceServer.GetAppointment),
		unaryHandler("ListAppointments", AppointmentsServiceServer.ListAppointments),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sasb/v1/appointments.json",
}
